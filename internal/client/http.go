package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Service API paths. The version prefix is fixed per service release;
// the client targets v1 only.
const (
	reportPath  = "/reporting-api/v1/report"
	versionPath = "/reporting-api/v1/version"
)

// DefaultRequestTimeout bounds one report request end to end. Reports
// over long windows can take the service tens of seconds to aggregate,
// so this is more generous than a typical API timeout.
const DefaultRequestTimeout = 60 * time.Second

// maxResponseBody limits how much of a response we read. Reports are
// bounded by the service's own row limits; anything past this indicates
// a misbehaving endpoint rather than a large report.
const maxResponseBody = 64 * 1024 * 1024 // 64MB

// HTTPClient implements Client against the reporting service's REST API.
//
// Design decision: Request signing lives in an injected
// http.RoundTripper, not here. The signing scheme (EdgeGrid) is
// credential management the rest of the tool never needs to see, and
// injection lets tests use the zero-value transport against httptest
// servers.
type HTTPClient struct {
	// endpoint is the service base URL, e.g. "https://api.example.net".
	endpoint *url.URL

	// httpClient performs the requests. Its Transport carries the
	// request signer when one is configured.
	httpClient *http.Client

	// logger receives per-request debug logging.
	logger *slog.Logger
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithRoundTripper installs the transport used for every request,
// typically a signing transport wrapping http.DefaultTransport.
func WithRoundTripper(rt http.RoundTripper) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Transport = rt
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger for request logging.
func WithLogger(logger *slog.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a client for the service at the given endpoint.
// The endpoint must be an absolute http or https URL.
func NewHTTPClient(endpoint string, opts ...HTTPClientOption) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	c := &HTTPClient{
		endpoint:   u,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetReport fetches one analytics report and returns the raw JSON body.
func (c *HTTPClient) GetReport(ctx context.Context, query Query) ([]byte, error) {
	return c.get(ctx, reportPath, query.Values())
}

// GetServiceVersion fetches the service's version document.
func (c *HTTPClient) GetServiceVersion(ctx context.Context) ([]byte, error) {
	return c.get(ctx, versionPath, nil)
}

// get performs one GET request against the service. Every request
// carries a fresh X-Request-ID so a failed call can be correlated with
// the service's own logs.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	// JoinPath keeps any base path on the endpoint (e.g. a reverse-proxy
	// prefix) in front of the service path.
	u := c.endpoint.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("requesting report service",
		"path", path,
		"requestID", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", requestID, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Response body close errors are not actionable

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response for request %s: %w", requestID, err)
	}

	c.logger.Debug("report service responded",
		"path", path,
		"requestID", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s (request %s): %s",
			ErrUnexpectedStatus, resp.Status, requestID, bodySnippet(body))
	}
	return body, nil
}

// bodySnippet returns a short prefix of an error response body for
// inclusion in error messages.
func bodySnippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
