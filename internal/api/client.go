// Package api is the HTTP client for the NotesHive service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noteshive/noteshive/internal/auth"
)

// DefaultBaseURL is where the service listens in local development.
const DefaultBaseURL = "http://localhost:3000/api"

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	BearerToken() (string, error)
}

// Client talks to the notes and auth endpoints.
type Client struct {
	baseURL    string
	creds      TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for baseURL. creds may be nil for the sign-in endpoints.
func NewClient(baseURL string, creds TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCredentials returns a copy of the client that authenticates with creds.
func (c *Client) WithCredentials(creds TokenSource) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method string
	path   string
	body   any
	// raw overrides body with a pre-encoded payload.
	raw         io.Reader
	contentType string
	auth        bool
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	var token string
	if req.auth {
		if c.creds == nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, auth.ErrNoCredential)
		}
		t, err := c.creds.BearerToken()
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
		token = t
	}

	body := req.raw
	contentType := req.contentType
	if body == nil && req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.path, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("api: request failed", "method", req.method, "path", req.path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api: request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, raw, requestID)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.path, err)
	}
	return nil
}
