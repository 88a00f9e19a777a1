// Package client talks to the network-analytics reporting service.
//
// The Client interface returns raw JSON bytes so the JSON output mode can
// pass the service response through verbatim; ParseReport decodes those
// bytes into the model for flattening.
//
// Authentication is deliberately not implemented here. The service
// requires signed requests, and the signer (e.g. an EdgeGrid transport)
// is injected as an http.RoundTripper by the caller. This package only
// builds requests, attaches correlation IDs, and checks responses.
package client
