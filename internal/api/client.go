// Package api is a client for the SUPRSS REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the user is not logged in.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client calls the SUPRSS API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	tokens         TokenSource
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on a copy of the HTTP client,
// so a shared client such as http.DefaultClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers fn to run whenever an authenticated
// call is rejected with 401. It is used to drop stored credentials.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// filePart is a single file in a multipart upload.
type filePart struct {
	field    string
	filename string
	content  io.Reader
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	json   any
	form   url.Values
	file   *filePart
	auth   bool
}

// response is a fully read API response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// do performs the request and turns non-2xx statuses into errors.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	body, contentType, err := encodeBody(r)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	if r.auth {
		token, err := c.token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"method", r.method,
			"path", r.path,
			"request_id", requestID,
			"error", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && r.auth && c.onUnauthorized != nil {
			c.logger.Debug("session rejected by server", "path", r.path)
			c.onUnauthorized()
		}
		return nil, apiErr
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// doJSON performs the request and decodes the body into out when out is
// non-nil.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func (c *Client) token() (string, error) {
	if c.tokens == nil {
		return "", ErrNotLoggedIn
	}
	token, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

func encodeBody(r request) (io.Reader, string, error) {
	switch {
	case r.file != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(r.file.field, r.file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := io.Copy(part, r.file.content); err != nil {
			return nil, "", fmt.Errorf("failed to write multipart body: %w", err)
		}
		for key, values := range r.form {
			for _, v := range values {
				if err := w.WriteField(key, v); err != nil {
					return nil, "", fmt.Errorf("failed to write multipart field: %w", err)
				}
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil

	case r.form != nil:
		return strings.NewReader(r.form.Encode()), "application/x-www-form-urlencoded", nil

	case r.json != nil:
		data, err := json.Marshal(r.json)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request payload: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
	return nil, "", nil
}

// Health checks that the API answers.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]any
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/health"}, &out); err != nil {
		return fmt.Errorf("api health check failed: %w", err)
	}
	if status, ok := out["status"].(string); ok && status != "ok" && status != "healthy" {
		return fmt.Errorf("api is unhealthy: status=%s", status)
	}
	return nil
}

// IsUnauthorized reports whether err means the session was rejected or
// is missing.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotLoggedIn)
}
