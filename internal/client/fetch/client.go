package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/anonsession/internal/common"
)

const (
	DefaultDelay    = 300 * time.Millisecond
	DefaultAttempts = 3
)

// ErrDecode wraps a response body that is not valid JSON.
var ErrDecode = errors.New("cannot decode response body")

// Client performs JSON GET/POST/PUT calls against one API base URL.
type Client struct {
	doer      Doer
	baseURL   string
	userAgent string
	delay     time.Duration
	attempts  int
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a Client. A nil doer means http.DefaultClient.
func NewClient(doer Doer, baseURL string, opts ...Option) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{
		doer:     doer,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		delay:    DefaultDelay,
		attempts: DefaultAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and decodes the JSON body into out.
// An empty token sends no Authorization header.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// Post sends data as JSON to path and decodes the JSON reply into out.
func (c *Client) Post(ctx context.Context, path, token string, data any, out any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

// Put is Post with the PUT method.
func (c *Client) Put(ctx context.Context, path, token string, data any, out any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, token, body, out)
}

func (c *Client) headers(token string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if token != "" {
		h.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	if c.userAgent != "" {
		h.Set("User-Agent", c.userAgent)
	}
	return h
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte, out any) error {
	resp, err := Retry(ctx, c.doer, c.baseURL+path, c.delay, c.attempts, Options{
		Method: method,
		Header: c.headers(token),
		Body:   body,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		var discard any
		out = &discard
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s (status %d): %v", ErrDecode, method, path, resp.StatusCode, err)
	}
	return nil
}
