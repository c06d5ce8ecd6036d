package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultRenewPath is the endpoint RenewSession posts to.
	DefaultRenewPath = "/auth/refresh"
	defaultTimeout   = 10 * time.Second
)

type (
	// Option configures a Client.
	Option func(*Client)

	// Client attaches the stored session to outgoing API calls.
	Client struct {
		rest           *resty.Client
		store          session.Store
		logger         *slog.Logger
		renewPath      string
		onUnauthorized func(ctx context.Context)
		guard          func(ctx context.Context) bool
	}
)

// New returns a client for baseURL reading its bearer token from store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		rest:      resty.New().SetBaseURL(baseURL).SetTimeout(defaultTimeout),
		store:     store,
		logger:    slog.New(slog.DiscardHandler),
		renewPath: DefaultRenewPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rest.OnBeforeRequest(c.authorize)
	c.rest.OnAfterResponse(c.checkResponse)
	c.rest.OnError(func(req *resty.Request, err error) {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionInvalid) {
			return
		}
		c.logger.WarnContext(req.Context(), "api call failed",
			"method", req.Method,
			"url", req.URL,
			"error", err,
		)
	})
	return c
}

// WithUnauthorizedHandler sets the hook invoked on every 401 answer.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithSessionGuard refuses requests with ErrSessionInvalid while fn reports false.
func WithSessionGuard(fn func(ctx context.Context) bool) Option {
	return func(c *Client) {
		c.guard = fn
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

// WithLogger sets the logger for request outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "apiclient")
		}
	}
}

// WithRenewPath overrides DefaultRenewPath.
func WithRenewPath(path string) Option {
	return func(c *Client) {
		c.renewPath = path
	}
}

// NewRequest returns a request bound to ctx that passes through the session hooks.
func (c *Client) NewRequest(ctx context.Context) *resty.Request {
	return c.rest.NewRequest().SetContext(ctx)
}

// Get fetches path and decodes a JSON body into out when out is not nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req := c.NewRequest(ctx)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Get(path)
	return statusError(resp, err)
}

// Post sends in as JSON and decodes the answer into out when out is not nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	req := c.NewRequest(ctx).SetBody(in)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return statusError(resp, err)
}

func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()
	if c.guard != nil && !c.guard(ctx) {
		return ErrSessionInvalid
	}

	token, err := c.store.Token(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return nil
	case err != nil:
		return fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

func (c *Client) checkResponse(_ *resty.Client, resp *resty.Response) error {
	ctx := resp.Request.Context()
	c.logger.DebugContext(ctx, "api call completed",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)

	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return ErrUnauthorized
}

func statusError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{
			Method:     resp.Request.Method,
			Path:       resp.Request.URL,
			StatusCode: resp.StatusCode(),
		}
	}
	return nil
}
