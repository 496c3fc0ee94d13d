// Package api is the typed client for the Quebra-Tigela REST backend and the
// IBGE geography service.
package api

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/quebra-tigela/internal/logging"
)

const authPathPrefix = "/api/auth/"

// TokenSource supplies the bearer token and is told when the backend
// rejects it.
type TokenSource interface {
	Token() string
	Expire(ctx context.Context) string
}

// Client issues JSON requests against a base URL.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	logger    *slog.Logger
	onExpired func(ctx context.Context, message string)
	cacheTTL  time.Duration
	now       func() time.Time
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request through its context. Calls that carry
// their own timeout, such as the photo verification upload, use theirs
// instead. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithTokens attaches the session token source.
func WithTokens(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSessionExpiredHandler is called with the user-facing notice after a
// 401/403 answer cleared the token.
func WithSessionExpiredHandler(fn func(ctx context.Context, message string)) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// WithLookupCache keeps reference data such as IBGE localities for ttl.
// Clients that do not serve reference data ignore it.
func WithLookupCache(ttl time.Duration, now func() time.Time) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
		c.now = now
	}
}

// New returns a Client for baseURL. Requests are traced through otelhttp.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := c.baseURL.String() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// do sends a JSON request and decodes a JSON answer into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := c.withDeadline(ctx, 0)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, path, out)
}

// withDeadline bounds ctx by timeout, falling back to the client-wide
// timeout when timeout is not positive.
func (c *Client) withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// send attaches credentials, performs req and maps the answer.
func (c *Client) send(req *http.Request, path string, out any) error {
	ctx := req.Context()
	isAuth := strings.Contains(path, authPathPrefix)
	req.Header.Set("Accept", "application/json")
	if !isAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := logging.Component(ctx, c.logger, "api", "", "method", req.Method, "path", path)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("request failed", "err", err)
		return &NetworkError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: req.Method, Path: path, Err: err}
	}
	logger.Debug("request completed", "status", resp.StatusCode, "duration_ms", time.Since(started).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			Method:  req.Method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: serverMessage(data),
		}
		if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && !isAuth {
			httpErr.Expired = true
			c.expire(ctx)
		}
		return httpErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", req.Method, path, err)
	}
	return nil
}

func (c *Client) expire(ctx context.Context) {
	message := ErrSessionExpired.Error()
	if c.tokens != nil {
		message = c.tokens.Expire(ctx)
	}
	logging.Component(ctx, c.logger, "api", "expire").Warn("session rejected by backend")
	if c.onExpired != nil {
		c.onExpired(ctx, message)
	}
}

// serverMessage extracts {"message": ...} from an error body. NestJS style
// bodies may carry a list of messages; the first one is used.
func serverMessage(data []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Message) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(body.Message, &text); err == nil {
		return text
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
