// Package rest implements service.Service and service.Auth against the task
// backend's JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tdash/internal/service"
	"tdash/internal/session"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to the backend. Every request goes through the session
// transport, which attaches the bearer token and drops it on 401.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero leaves net/http's default behavior.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithBaseTransport replaces the transport under the session layer (for testing).
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if st, ok := c.http.Transport.(*sessionTransport); ok {
			st.base = rt
		}
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     slog.Default(),
	}
	st := &sessionTransport{sess: sess, base: http.DefaultTransport}
	c.http = &http.Client{Transport: st}
	for _, opt := range opts {
		opt(c)
	}
	st.log = c.log
	return c
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("backend request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("backend response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// errorBody mirrors the backend's error payload.
type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func decodeError(resp *http.Response) error {
	apiErr := &service.APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		apiErr.Details = eb.Details
	} else if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "<") {
		// Plain-text bodies are shown as they come; HTML error pages are not.
		apiErr.Message = text
	}
	return apiErr
}
