package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/kedare/bookworm/internal/logger"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubRoundTripper struct {
	resp *http.Response
	err  error
	req  *http.Request
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.req = req

	return s.resp, s.err
}

func withLoggerOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	previous := logger.Log.Level()
	logger.RedirectTo(buf)
	pterm.DisableStyling()
	require.NoError(t, logger.SetLevel("debug"))
	t.Cleanup(func() {
		logger.RedirectTo(os.Stderr)
		pterm.EnableStyling()
		logger.Log.SetLevel(previous)
	})

	return buf
}

func TestLoggingTransportSuccess(t *testing.T) {
	buf := withLoggerOutput(t)
	resp := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBuffer(nil))}
	stub := &stubRoundTripper{resp: resp}
	rt := LoggingTransport{Base: stub, Name: "catalog"}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com/volumes?q=dune&key=secret", nil)

	result, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Same(t, resp, result)
	assert.Same(t, req, stub.req)

	assert.Contains(t, buf.String(), "catalog HTTP GET https://example.com/volumes?key=REDACTED&q=dune -> 200")
	assert.NotContains(t, buf.String(), "secret")
}

func TestLoggingTransportError(t *testing.T) {
	buf := withLoggerOutput(t)
	sentinel := errors.New("boom")
	rt := LoggingTransport{Base: &stubRoundTripper{err: sentinel}, Name: "photo"}

	req, _ := http.NewRequest(http.MethodPost, "https://example.com/photos", nil)

	_, err := rt.RoundTrip(req)
	require.ErrorIs(t, err, sentinel)
	assert.Contains(t, buf.String(), "photo HTTP POST https://example.com/photos failed")
}

func TestUserAgentTransport(t *testing.T) {
	stub := &stubRoundTripper{resp: &http.Response{StatusCode: http.StatusOK}}
	rt := UserAgentTransport{Base: stub, UserAgent: "bookworm/test"}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "bookworm/test", stub.req.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("User-Agent"), "original request must not be mutated")

	custom, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	custom.Header.Set("User-Agent", "custom")
	_, err = rt.RoundTrip(custom)
	require.NoError(t, err)
	assert.Equal(t, "custom", stub.req.Header.Get("User-Agent"))
}

func TestRateLimitTransportHonorsContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())

	stub := &stubRoundTripper{resp: &http.Response{StatusCode: http.StatusOK}}
	rt := RateLimitTransport{Base: stub, Limiter: limiter}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://example.com/", nil)
	_, err := rt.RoundTrip(req)
	require.Error(t, err)
	assert.Nil(t, stub.req, "request must not reach the base transport")
}

func TestNewClient(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		Name:          "test",
		Timeout:       5 * time.Second,
		UserAgent:     "bookworm/1.0",
		RatePerSecond: 100,
	})
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "bookworm/1.0", gotAgent)
}
