package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/loopblock/loopblock/internal/api"
	"github.com/loopblock/loopblock/internal/config"
	"github.com/loopblock/loopblock/internal/logging"
)

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:3000")
	if c.baseURL != "http://localhost:3000" {
		t.Errorf("expected baseURL http://localhost:3000, got %s", c.baseURL)
	}
}

func TestNewClient_TrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:3000/")
	if c.baseURL != "http://localhost:3000" {
		t.Errorf("expected baseURL without trailing slash, got %s", c.baseURL)
	}
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("http://localhost:3000", WithTimeout(60*time.Second))
	if c.httpClient.Timeout != 60*time.Second {
		t.Errorf("expected timeout 60s, got %s", c.httpClient.Timeout)
	}
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://localhost:3000", WithHTTPClient(hc))
	if c.httpClient != hc {
		t.Error("expected custom http client")
	}
}

func TestRootAgainstStub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("expected path /, got %s", r.URL.Path)
		}
		w.Header().Set("X-Request-ID", "req-1")
		json.NewEncoder(w).Encode(map[string]string{"message": "hi", "timestamp": "now"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Root(context.Background())
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if resp.Message != "hi" || resp.RequestID != "req-1" || resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error", "timestamp": "now", "status": "error"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Slow(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if !apiErr.IsInternal() || apiErr.Message != "Internal server error" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Root(context.Background())
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected *ConnectionError, got %v", err)
	}
}

// testServer starts a real loopblock server on a free port and returns its URL.
func testServer(t *testing.T, slow time.Duration) string {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Slow.Duration = slow

	s := api.New(cfg, logging.New(io.Discard, false))
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	go s.Serve()
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	return "http://127.0.0.1:" + port
}

func TestNotFound(t *testing.T) {
	url := testServer(t, time.Second)

	resp, err := NewClient(url).Get(context.Background(), "/nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	_, err = NewClient(url).get(context.Background(), "/nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.IsNotFound() {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestProbeShowsStarvation(t *testing.T) {
	slow := 400 * time.Millisecond
	url := testServer(t, slow)

	res, err := NewClient(url).Probe(context.Background(), 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if res.Slow.Elapsed < slow {
		t.Errorf("slow answered after %s, want at least %s", res.Slow.Elapsed, slow)
	}
	if res.Slow.Note == "" {
		t.Error("slow response has no note")
	}
	if !res.Starved() {
		t.Errorf("expected / to wait for /slow: delay=%s fast=%s slow=%s", res.Delay, res.Fast.Elapsed, res.Slow.Elapsed)
	}
	if res.Total > 2*slow {
		t.Errorf("probe took %s, expected about %s", res.Total, slow)
	}
}

func TestStarvedFalseWhenFastIsFast(t *testing.T) {
	res := &ProbeResult{
		Slow:  &Response{Elapsed: time.Second},
		Fast:  &Response{Elapsed: 5 * time.Millisecond},
		Delay: 100 * time.Millisecond,
	}
	if res.Starved() {
		t.Error("expected not starved")
	}
}
