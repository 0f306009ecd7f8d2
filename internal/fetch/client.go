// Package fetch implements a resilient HTTP fetch client with protocol
// fallback, anti-bot recovery, and bounded retry with exponential backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Default configuration values.
const (
	defaultMaxAttempts   = 3
	defaultBaseDelay     = 500 * time.Millisecond
	defaultBackoffFactor = 2.0
	defaultTimeout       = 30 * time.Second
	defaultUserAgent     = "newsbrief/1.0"
)

// browserHeaders is the impersonation header set layered on top of caller
// headers for the 403 fallback.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9," +
		"image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,ja;q=0.8",
}

// Response is the result of a successful fetch.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Recorder receives fetch diagnostics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordAttempt(transport string)
	RecordFallback(kind string)
	RecordRetryExhausted()
}

// nopLogger is used when no logger is injected.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// nopRecorder is used when no recorder is injected.
type nopRecorder struct{}

func (nopRecorder) RecordAttempt(string)  {}
func (nopRecorder) RecordFallback(string) {}
func (nopRecorder) RecordRetryExhausted() {}

// Fallback kinds reported to the Recorder.
const (
	FallbackProtocol      = "protocol"
	FallbackUnprocessable = "unprocessable"
	FallbackForbidden     = "forbidden"
)

// Config holds fetch client configuration.
type Config struct {
	// MaxAttempts is the number of outer retry attempts, including the
	// initial one.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
	// BackoffFactor multiplies the delay after each failed attempt.
	BackoffFactor float64 `mapstructure:"backoff_factor" yaml:"backoff_factor"`
	// Timeout bounds each individual transport call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RatePerHost throttles requests per host. Zero disables throttling.
	RatePerHost float64 `mapstructure:"rate_per_host" yaml:"rate_per_host"`
	// UserAgent is sent when the caller supplies none.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// WithDefaults returns a copy of the config with default values applied
// for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.BackoffFactor <= 1 {
		c.BackoffFactor = defaultBackoffFactor
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Logger provides structured logging for the client.
type Logger interface {
	Debug(msg string, fields ...any)
	Warn(msg string, fields ...any)
}

// Client executes requests on a primary HTTP/2 transport and falls back to
// a secondary HTTP/1.1 transport on protocol errors, 422 responses, and 403
// blocking, before handing failures to a bounded retry loop.
//
// Per logical attempt at most three transport calls occur: the primary
// call, one fallback substitution, and one browser-impersonation retry.
type Client struct {
	primary   http.RoundTripper
	secondary http.RoundTripper
	closers   []interface{ CloseIdleConnections() }
	cfg       Config
	log       Logger
	rec       Recorder

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	closed   bool

	closeOnce sync.Once
}

// Option configures optional client collaborators.
type Option func(*Client)

// WithRecorder injects a diagnostics recorder.
func WithRecorder(rec Recorder) Option {
	return func(c *Client) {
		if rec != nil {
			c.rec = rec
		}
	}
}

// WithTransports replaces both transports. Intended for tests and callers
// that need custom dialing.
func WithTransports(primary, secondary http.RoundTripper) Option {
	return func(c *Client) {
		c.primary = primary
		c.secondary = secondary
		c.closers = nil

		for _, rt := range []http.RoundTripper{primary, secondary} {
			if closer, ok := rt.(interface{ CloseIdleConnections() }); ok {
				c.closers = append(c.closers, closer)
			}
		}
	}
}

// New creates a fetch client with pooled HTTP/2 and HTTP/1.1 transports.
// The client is safe for concurrent use across independent fetches and must
// be closed at shutdown.
func New(cfg Config, log Logger, opts ...Option) *Client {
	if log == nil {
		log = nopLogger{}
	}

	primary := newPrimaryTransport()
	secondary := newSecondaryTransport()

	c := &Client{
		primary:   primary,
		secondary: secondary,
		closers: []interface{ CloseIdleConnections() }{
			primary,
			secondary,
		},
		cfg:      cfg.WithDefaults(),
		log:      log,
		rec:      nopRecorder{},
		limiters: make(map[string]*rate.Limiter),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch executes a GET request against url with the per-attempt fallback
// state machine and the outer retry/backoff loop. Caller headers are sent
// on every transport call. On exhaustion the returned error is a
// *RetryExhaustedError wrapping the last underlying failure.
func (c *Client) Fetch(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}

	// Malformed URLs are a caller-contract violation, never retried.
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("parse url %q: missing host", rawURL)
	}

	if waitErr := c.waitForHost(ctx, parsed.Host); waitErr != nil {
		return nil, waitErr
	}

	var lastErr error

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			if sleepErr := c.backoff(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
		}

		resp, attemptErr := c.attempt(ctx, rawURL, header)
		if attemptErr == nil {
			return resp, nil
		}

		lastErr = attemptErr
		c.log.Debug("fetch attempt failed",
			"url", rawURL,
			"attempt", attempt+1,
			"error", attemptErr.Error(),
		)
	}

	c.rec.RecordRetryExhausted()
	c.log.Warn("fetch retries exhausted",
		"url", rawURL,
		"attempts", c.cfg.MaxAttempts,
	)

	return nil, &RetryExhaustedError{Attempts: c.cfg.MaxAttempts, Err: lastErr}
}

// attempt runs one logical fetch attempt: primary call, at most one
// fallback substitution, and at most one browser-impersonation retry.
func (c *Client) attempt(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	resp, err := c.send(ctx, c.primary, "h2", rawURL, header)

	switch {
	case err != nil:
		// Stream or protocol-level failure: substitute the secondary
		// transport within the same attempt.
		c.rec.RecordFallback(FallbackProtocol)

		resp, err = c.send(ctx, c.secondary, "http1", rawURL, header)
		if err != nil {
			return nil, err
		}

	case resp.Status == http.StatusUnprocessableEntity:
		// One shot on the secondary transport; a second 422 stands.
		c.rec.RecordFallback(FallbackUnprocessable)

		resp, err = c.send(ctx, c.secondary, "http1", rawURL, header)
		if err != nil {
			return nil, err
		}
	}

	if resp.Status == http.StatusForbidden {
		c.rec.RecordFallback(FallbackForbidden)

		resp, err = c.send(ctx, c.secondary, "http1", rawURL, withBrowserHeaders(header))
		if err != nil {
			return nil, err
		}
	}

	if resp.Status >= http.StatusOK && resp.Status < http.StatusMultipleChoices {
		return resp, nil
	}

	return nil, &StatusError{Status: resp.Status, URL: rawURL}
}

// send issues a single transport call bounded by the per-call timeout.
func (c *Client) send(
	ctx context.Context,
	transport http.RoundTripper,
	family, rawURL string,
	header http.Header,
) (*Response, error) {
	c.rec.RecordAttempt(family)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("%s transport: %w", family, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// backoff sleeps for base_delay * factor^(attempt-1) or returns early when
// the context is cancelled.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(
		float64(c.cfg.BaseDelay) * math.Pow(c.cfg.BackoffFactor, float64(attempt-1)),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// waitForHost applies the per-host rate limit, if configured.
func (c *Client) waitForHost(ctx context.Context, host string) error {
	if c.cfg.RatePerHost <= 0 {
		return nil
	}

	c.mu.Lock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(c.cfg.RatePerHost), 1)
		c.limiters[host] = limiter
	}
	c.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// Close releases pooled connections on both transport families. It is safe
// to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		for _, closer := range c.closers {
			closer.CloseIdleConnections()
		}
	})
}

// withBrowserHeaders layers the impersonation set on top of caller headers.
// Caller entries for other keys are preserved.
func withBrowserHeaders(header http.Header) http.Header {
	merged := make(http.Header, len(header)+len(browserHeaders))

	for key, values := range header {
		for _, value := range values {
			merged.Add(key, value)
		}
	}

	for key, value := range browserHeaders {
		merged.Set(key, value)
	}

	return merged
}
