// Package transport builds the HTTP clients shared by the remote service
// clients: request logging, user agent stamping and optional rate limiting.
package transport

import (
	"net/http"
	"time"

	"github.com/kedare/bookworm/internal/logger"
	"golang.org/x/time/rate"
)

// LoggingTransport logs every request with its status and latency at debug level.
type LoggingTransport struct {
	Base http.RoundTripper
	// Name prefixes log lines, e.g. "catalog".
	Name string
}

func (t LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := base(t.Base).RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Log.Debugf("%s HTTP %s %s failed after %s: %v", t.Name, req.Method, redact(req), elapsed, err)

		return nil, err
	}

	logger.Log.Debugf("%s HTTP %s %s -> %d (%s)", t.Name, req.Method, redact(req), resp.StatusCode, elapsed)

	return resp, nil
}

// UserAgentTransport sets the User-Agent header on requests that lack one.
type UserAgentTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

func (t UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	return base(t.Base).RoundTrip(req)
}

// RateLimitTransport waits on Limiter before each request. The wait honors
// the request context, so cancelled searches do not queue behind the limiter.
type RateLimitTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (t RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	return base(t.Base).RoundTrip(req)
}

// Options configure NewClient.
type Options struct {
	Name      string
	Timeout   time.Duration
	UserAgent string
	// RatePerSecond disables rate limiting when zero.
	RatePerSecond float64
	Burst         int
	// Base is the innermost transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// NewClient returns an http.Client with the logging, user agent and rate
// limiting layers stacked on top of opts.Base.
func NewClient(opts Options) *http.Client {
	var rt http.RoundTripper = LoggingTransport{Base: opts.Base, Name: opts.Name}

	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}

		rt = RateLimitTransport{Base: rt, Limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)}
	}

	rt = UserAgentTransport{Base: rt, UserAgent: opts.UserAgent}

	return &http.Client{Transport: rt, Timeout: opts.Timeout}
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}

	return rt
}

// redact hides the API key query parameter from logs.
func redact(req *http.Request) string {
	if req.URL == nil {
		return ""
	}

	q := req.URL.Query()
	if q.Get("key") == "" {
		return req.URL.String()
	}

	u := *req.URL
	q.Set("key", "REDACTED")
	u.RawQuery = q.Encode()

	return u.String()
}
