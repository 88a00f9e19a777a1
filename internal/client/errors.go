package client

import "errors"

// Client errors.
//
// Design decision: We use package-level sentinel errors so callers can
// match them with errors.Is while the wrapped message still carries the
// request-specific detail (status code, request ID).
var (
	// ErrInvalidEndpoint is returned when the configured endpoint is not
	// an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrUnexpectedStatus is returned when the service answers with a
	// non-200 status. The wrapping error includes the status and a
	// snippet of the response body.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
