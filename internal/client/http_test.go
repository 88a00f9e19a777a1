package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testQuery returns a minimal valid query for HTTP tests.
func testQuery() Query {
	return Query{
		Start:              time.Unix(1700000000, 0),
		End:                time.Unix(1700003600, 0),
		OperatorID:         "1234",
		GranularitySeconds: 300,
		KPIs:               []string{"requests"},
	}
}

// TestNewHTTPClient tests endpoint validation.
func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"https endpoint", "https://api.example.net", false},
		{"http endpoint", "http://127.0.0.1:8080", false},
		{"relative url", "/reporting", true},
		{"missing scheme", "api.example.net", true},
		{"unsupported scheme", "ftp://api.example.net", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewHTTPClient(tt.endpoint)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEndpoint) {
					t.Errorf("expected ErrInvalidEndpoint, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestHTTPClientGetReport tests request construction and body return.
func TestHTTPClientGetReport(t *testing.T) {
	t.Parallel()

	var gotPath, gotRequestID, gotOperator string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		gotOperator = r.URL.Query().Get("operatorId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metadata":{},"groups":[]}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := c.GetReport(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("targets the report path", func(t *testing.T) {
		if gotPath != "/reporting-api/v1/report" {
			t.Errorf("got path %q", gotPath)
		}
	})

	t.Run("sends query parameters", func(t *testing.T) {
		if gotOperator != "1234" {
			t.Errorf("got operatorId %q, expected 1234", gotOperator)
		}
	})

	t.Run("attaches a request ID", func(t *testing.T) {
		if gotRequestID == "" {
			t.Error("expected X-Request-ID header")
		}
	})

	t.Run("returns the raw body verbatim", func(t *testing.T) {
		if string(body) != `{"metadata":{},"groups":[]}` {
			t.Errorf("got body %q", body)
		}
	})
}

// TestHTTPClientEndpointBasePath tests that a base path on the endpoint
// (e.g. a reverse-proxy prefix) is kept in front of the service path.
func TestHTTPClientEndpointBasePath(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metadata":{},"groups":[]}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL + "/proxy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.GetReport(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/proxy/reporting-api/v1/report" {
		t.Errorf("got path %q, expected base path preserved", gotPath)
	}
}

// TestHTTPClientGetServiceVersion tests the version endpoint.
func TestHTTPClientGetServiceVersion(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reporting-api/v1/version" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"version":"4.2.0"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := c.GetServiceVersion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"version":"4.2.0"}` {
		t.Errorf("got body %q", body)
	}
}

// TestHTTPClientErrorStatus tests non-200 handling.
func TestHTTPClientErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"operator not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.GetReport(context.Background(), testQuery())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "operator not found") {
		t.Errorf("expected body snippet in error, got %q", err)
	}
}

// TestHTTPClientUsesInjectedTransport tests that a configured
// RoundTripper sees every request, the hook a request signer uses.
func TestHTTPClientUsesInjectedTransport(t *testing.T) {
	t.Parallel()

	var signed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "unsigned", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		signed = true
		r.Header.Set("Authorization", "EG1-HMAC-SHA256 test")
		return http.DefaultTransport.RoundTrip(r)
	})

	c, err := NewHTTPClient(srv.URL, WithRoundTripper(rt))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.GetReport(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !signed {
		t.Error("expected injected transport to handle the request")
	}
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
