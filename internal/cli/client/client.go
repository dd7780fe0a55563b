package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the backend the original deployment serves from
const DefaultBaseURL = "http://localhost:5000/api/"

// TokenSource supplies the bearer token for outgoing requests.
// An empty string means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// SessionExpiredFunc is notified when an authenticated request gets a 401
type SessionExpiredFunc func(*APIError)

// Client represents an HTTP client for the homeserv API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger

	mu        sync.RWMutex
	onExpired []SessionExpiredFunc
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "api").Logger()
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new API client rooted at baseURL
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the normalized base URL, always ending in "/"
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionExpired registers fn to be called when an authenticated request
// is rejected with 401. The returned func removes the registration.
func (c *Client) OnSessionExpired(fn SessionExpiredFunc) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onExpired = append(c.onExpired, fn)
	idx := len(c.onExpired) - 1

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.onExpired) {
			c.onExpired[idx] = nil
		}
	}
}

// request is one logical API call. expiryHandled is the retry flag: the
// session-expired signal fires at most once per request.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	public bool
	id     string

	expiryHandled atomic.Bool
}

// DoPublic performs a call without a bearer token and without the
// session-expired policy. Used for login and registration.
func (c *Client) DoPublic(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, &request{method: method, path: path, body: body, public: true}, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, &request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, &request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, &request{method: http.MethodDelete, path: path}, out)
}

func (c *Client) do(ctx context.Context, r *request, out any) error {
	if r.id == "" {
		r.id = ulid.Make().String()
	}

	endpoint := c.baseURL + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", r.id)

	if !r.public && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", r.id).Str("method", r.method).Str("path", r.path).Msg("Request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", r.id).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(r, resp.StatusCode, respBody)
		if resp.StatusCode == http.StatusUnauthorized && !r.public {
			apiErr.sessionExpired = true
			c.handleUnauthorized(r, apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleUnauthorized fires the session-expired listeners once per request
func (c *Client) handleUnauthorized(r *request, apiErr *APIError) {
	if !r.expiryHandled.CompareAndSwap(false, true) {
		return
	}

	c.log.Warn().Str("request_id", r.id).Str("path", r.path).Msg("Session rejected by server")

	c.mu.RLock()
	listeners := make([]SessionExpiredFunc, 0, len(c.onExpired))
	for _, fn := range c.onExpired {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(apiErr)
	}
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
