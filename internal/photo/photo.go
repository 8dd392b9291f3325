// Package photo uploads cover photos to the text-detection service and
// retrieves the text it found.
package photo

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // G501: the service reports MD5 ETags
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kedare/bookworm/internal/logger"
)

const (
	DefaultBaseURL = "https://bookwormapp.co.in"
	// FormField is the multipart field carrying the photo.
	FormField = "file"
	// RequestIDHeader correlates an upload with the service logs.
	RequestIDHeader = "X-Request-ID"
)

// ErrRemote wraps every transport or protocol failure.
var ErrRemote = errors.New("photo service request failed")

// UploadedPhoto identifies a stored photo: Name is the object key, ETag its content hash.
type UploadedPhoto struct {
	Name string `json:"name"`
	ETag string `json:"eTag"`
}

// Client talks to the photo service.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option customizes the behaviour of a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the service root, primarily for testing.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent overrides the HTTP user agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = agent
		}
	}
}

// NewClient builds a Client. A nil client falls back to http.DefaultClient.
func NewClient(client *http.Client, opts ...Option) *Client {
	if client == nil {
		client = http.DefaultClient
	}

	c := &Client{
		client:  client,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Upload posts the photo at path as multipart form data.
func (c *Client) Upload(ctx context.Context, path string) (UploadedPhoto, error) {
	file, err := os.Open(path)
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("open photo: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, filepath.Base(path)))
	header.Set("Content-Type", contentType(path))

	part, err := writer.CreatePart(header)
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("create form part: %w", err)
	}

	sum := md5.New() //nolint:gosec // G401: used for ETag comparison only
	size, err := io.Copy(io.MultiWriter(part, sum), file)
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("read photo: %w", err)
	}

	if err := writer.Close(); err != nil {
		return UploadedPhoto{}, fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/photos", body)
	if err != nil {
		return UploadedPhoto{}, fmt.Errorf("create upload request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	c.setUserAgent(req)

	logger.Log.Debugf("Uploading %s (%d bytes, request %s)", path, size, requestID)

	var uploaded UploadedPhoto
	if err := c.do(req, "upload photo", &uploaded); err != nil {
		return UploadedPhoto{}, err
	}

	if strings.TrimSpace(uploaded.Name) == "" {
		return UploadedPhoto{}, fmt.Errorf("%w: upload photo: response has no object key", ErrRemote)
	}

	if err := VerifyETag(uploaded.ETag, sum.Sum(nil)); err != nil {
		// Some deployments compute ETags over transformed images.
		logger.Log.Warnf("Uploaded photo %s: %v", uploaded.Name, err)
	}

	logger.Log.Debugf("Uploaded photo stored as %s", uploaded.Name)

	return uploaded, nil
}

// DetectText returns the text fragments found in the stored photo, in
// reading order. An empty slice means nothing was detected.
func (c *Client) DetectText(ctx context.Context, key string) ([]string, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: detect text: empty object key", ErrRemote)
	}

	endpoint := fmt.Sprintf("%s/photos/%s/text", c.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create detect request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	var fragments []string
	if err := c.do(req, "detect text", &fragments); err != nil {
		return nil, err
	}

	logger.Log.Debugf("Detected %d text fragments in %s", len(fragments), key)

	if fragments == nil {
		fragments = []string{}
	}

	return fragments, nil
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		return fmt.Errorf("%w: %s: %w", ErrRemote, operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			return fmt.Errorf("%w: %s: unexpected status %s", ErrRemote, operation, resp.Status)
		}

		return fmt.Errorf("%w: %s: unexpected status %s: %s", ErrRemote, operation, resp.Status, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", ErrRemote, operation, err)
	}

	return nil
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
