// Package supabase talks to a hosted Supabase project: GoTrue for auth and
// PostgREST for the platform tables.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/remote"
)

// Client is the Supabase-backed Remote Data Client
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock overrides the time source used for expiry and row timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client for the project at baseURL
func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ remote.Backend = (*Client)(nil)

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	bearer string // Overrides the context token
	prefer string
}

// apiError is the union of GoTrue and PostgREST error bodies
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
}

func (e apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// do sends req and decodes a 2xx JSON body into out (when non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	bearer := req.bearer
	if bearer == "" {
		if token, ok := remote.AccessToken(ctx); ok {
			bearer = token
		} else {
			bearer = c.anonKey
		}
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("Supabase request failed", logger.F("method", req.method), logger.F("path", req.path), logger.F("error", err))
		return apperr.Remote("Unable to reach the server. Please try again.", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Remote("Unable to read the server response.", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		logger.Debug("Supabase error response",
			logger.F("method", req.method),
			logger.F("path", req.path),
			logger.F("status", resp.StatusCode),
			logger.F("message", msg))
		return apperr.Remote(msg, resp.StatusCode, fmt.Errorf("%s %s: status %d", req.method, req.path, resp.StatusCode))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Remote("Unexpected response from the server.", resp.StatusCode, fmt.Errorf("failed to decode %s: %w", req.path, err))
	}
	return nil
}

// eq builds a PostgREST equality filter value
func eq(v string) string {
	return "eq." + v
}
