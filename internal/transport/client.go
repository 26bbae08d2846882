// Package transport performs HTTP calls against the ESOP backend and turns
// every response into either a decoded result or one typed error.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http       *http.Client
	base       *url.URL
	auth       Authenticator
	credential string
	headers    http.Header
	logger     *zerolog.Logger

	mu        sync.RWMutex
	onExpired []func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithAuth sets the authenticator and the credential it applies.
func WithAuth(auth Authenticator, credential string) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
		c.credential = credential
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.NewConfigError("api_url", "must be an absolute http(s) URL", err)
	}

	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		base:    base,
		auth:    &NoAuth{},
		headers: make(http.Header),
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithCredential returns a copy of c that presents a different credential.
// The copy shares the underlying *http.Client but has no expiry hooks.
func (c *Client) WithCredential(credential string) *Client {
	return &Client{
		http:       c.http,
		base:       c.base,
		auth:       c.auth,
		credential: credential,
		headers:    c.headers.Clone(),
		logger:     c.logger,
	}
}

// CloseIdleConnections closes keep-alive connections that are not in use.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// OnSessionExpired registers fn to run whenever the backend answers 401.
// Hooks run synchronously before Do returns the error.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// Request describes one backend call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers http.Header
}

// Result is a classified successful response.
type Result struct {
	StatusCode int
	NoContent  bool
	Body       []byte
}

// Decode unmarshals the body into target. A no-content result leaves
// target untouched.
func (r *Result) Decode(target any) error {
	if r == nil || r.NoContent || len(bytes.TrimSpace(r.Body)) == 0 || target == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// Do sends req and classifies the response:
//   - 401 runs the session-expired hooks and fails with *errors.SessionExpiredError
//   - other non-2xx fail with *errors.RequestFailedError carrying the backend detail
//   - 204 succeeds with Result.NoContent set
//   - a request that never got a response fails with *errors.NetworkError
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	endpoint := c.resolve(req.Path, req.Query)
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.WrapNetwork(method, endpoint, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	for k, vs := range c.headers {
		httpReq.Header[k] = vs
	}
	for k, vs := range req.Headers {
		httpReq.Header[k] = vs
	}
	c.auth.Apply(httpReq, c.credential)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("request failed")
		return nil, errors.WrapNetwork(method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapNetwork(method, endpoint, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.sessionExpired()
		return nil, errors.NewSessionExpiredError(req.Path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.NewRequestFailedError(req.Path, resp.StatusCode, parseDetail(payload))
	case resp.StatusCode == http.StatusNoContent:
		return &Result{StatusCode: resp.StatusCode, NoContent: true}, nil
	}
	return &Result{StatusCode: resp.StatusCode, Body: payload}, nil
}

// Get performs a GET and decodes the body into target.
func (c *Client) Get(ctx context.Context, path string, query url.Values, target any) error {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return res.Decode(target)
}

// Send performs a request with a JSON body and decodes the reply into target.
func (c *Client) Send(ctx context.Context, method, path string, body, target any) (*Result, error) {
	res, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return res, res.Decode(target)
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) sessionExpired() {
	c.mu.RLock()
	hooks := append([]func(){}, c.onExpired...)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}
