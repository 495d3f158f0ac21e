// Package youtube implements the extraction-and-pagination engine: session
// bootstrap, embedded-state extraction, continuation-token location, RPC
// calls, and lazy streams of normalized video and comment records.
//
// The engine is stateless between top-level calls. Every Client owns its own
// session and nothing is cached or persisted, so independent operations can
// run concurrently from separate Clients.
package youtube

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const defaultDelay = 100 * time.Millisecond

// transport is the session surface the engine needs. Satisfied by *Session;
// tests substitute a fake.
type transport interface {
	Get(ctx context.Context, url string) (body []byte, status int, finalURL string, err error)
	Post(ctx context.Context, url string, payload []byte, headers map[string]string) (body []byte, status int, err error)
	Close()
}

// Client drives one or more scraping operations against a single session.
type Client struct {
	session  transport
	limiter  *rate.Limiter
	host     string
	language string
	debug    bool
}

// Option configures a Client.
type Option func(*Client)

// WithLanguage sets the UI language requested from the host (Accept-Language
// and the client-context hl field).
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithDebug mirrors every raw HTML fetch to the diagnostic dump path.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithDelay overrides the fixed pause between consecutive RPC calls.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithHost points the client at a different host base URL, e.g. a mirror or
// a test server.
func WithHost(base string) Option {
	return func(c *Client) { c.host = base }
}

// NewClient opens a session and returns a client ready for one or more
// top-level operations. Callers should Close it when done.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		host:    "https://www.youtube.com",
		limiter: rate.NewLimiter(rate.Every(defaultDelay), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		s, err := OpenSession(c.language)
		if err != nil {
			return nil, err
		}
		c.session = s
	}
	return c, nil
}

// Close releases the underlying session.
func (c *Client) Close() {
	if c.session != nil {
		c.session.Close()
	}
}
