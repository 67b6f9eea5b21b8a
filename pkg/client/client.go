// Package client is a small Go client for the loopblock server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Response is a decoded server response.
type Response struct {
	StatusCode int           `json:"-"`
	RequestID  string        `json:"-"`
	Elapsed    time.Duration `json:"-"`

	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Client is the loopblock API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new loopblock API client.
func NewClient(baseURL string, opts ...Option) *Client {
	// Remove trailing slash from baseURL
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// /slow answers after the whole blocking duration, plus any queue
			Timeout: 2 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// Root calls GET /.
func (c *Client) Root(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/")
}

// Slow calls GET /slow. It returns only once the server finished blocking.
func (c *Client) Slow(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/slow")
}

// Get calls GET path and returns the decoded response whatever its status.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("loopblock: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	out := &Response{}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("loopblock: failed to decode response: %w", err)
	}
	out.StatusCode = resp.StatusCode
	out.RequestID = resp.Header.Get("X-Request-ID")
	out.Elapsed = time.Since(start)
	return out, nil
}

// get is Get, turning error statuses into an *APIError.
func (c *Client) get(ctx context.Context, path string) (*Response, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return resp, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return resp, nil
}
