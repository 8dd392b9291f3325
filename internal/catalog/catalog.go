// Package catalog queries the remote book catalog (Google Books volumes API).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
	books "google.golang.org/api/books/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// DefaultBaseURL is the catalog root; the client appends books/v1/...
	DefaultBaseURL = "https://books.googleapis.com/"
	// DefaultMaxResults matches the catalog's own default page size.
	DefaultMaxResults = 20
)

var (
	// ErrRemote wraps every transport or protocol failure.
	ErrRemote = errors.New("catalog request failed")
	// ErrNotFound is returned alongside ErrRemote when a volume id is unknown.
	ErrNotFound = errors.New("volume not found")
)

// Client searches volumes and fetches volume details.
type Client struct {
	service    *books.Service
	apiKey     string
	maxResults int64
}

// Option customizes a Client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL    string
	apiKey     string
	maxResults int64
}

// WithBaseURL overrides the catalog root URL.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		if strings.TrimSpace(baseURL) == "" {
			return
		}

		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}

		c.baseURL = baseURL
	}
}

// WithAPIKey sends key with every request. The catalog accepts anonymous
// requests with a lower quota when no key is set.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithMaxResults sets the page size of searches.
func WithMaxResults(n int64) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// NewClient builds a catalog client on top of httpClient, which carries the
// logging, rate limiting and timeout layers.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	cfg := clientConfig{baseURL: DefaultBaseURL, maxResults: DefaultMaxResults}
	for _, opt := range opts {
		opt(&cfg)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	service, err := books.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(cfg.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create books service: %w", err)
	}

	logger.Log.Debugf("Catalog client created for %s", cfg.baseURL)

	return &Client{
		service:    service,
		apiKey:     cfg.apiKey,
		maxResults: cfg.maxResults,
	}, nil
}

// Search returns the volumes whose title matches query.
func (c *Client) Search(ctx context.Context, query string) (book.SearchResult, error) {
	logger.Log.Debugf("Searching catalog for %q", query)

	resp, err := c.service.Volumes.List(query).
		MaxResults(c.maxResults).
		Context(ctx).
		Do(c.callOptions()...)
	if err != nil {
		return book.SearchResult{}, wrapError(fmt.Sprintf("search %q", query), err)
	}

	result := book.SearchResult{TotalItems: resp.TotalItems}
	for _, volume := range resp.Items {
		if volume == nil {
			continue
		}

		result.Items = append(result.Items, convertVolume(volume))
	}

	logger.Log.Debugf("Catalog search %q returned %d of %d items", query, len(result.Items), result.TotalItems)

	return result, nil
}

// GetDetails fetches a single volume by id.
func (c *Client) GetDetails(ctx context.Context, id string) (book.SearchResultItem, error) {
	if strings.TrimSpace(id) == "" {
		return book.SearchResultItem{}, fmt.Errorf("%w: empty volume id", ErrRemote)
	}

	logger.Log.Debugf("Fetching catalog volume %s", id)

	volume, err := c.service.Volumes.Get(id).Context(ctx).Do(c.callOptions()...)
	if err != nil {
		return book.SearchResultItem{}, wrapError("get volume "+id, err)
	}

	return convertVolume(volume), nil
}

func (c *Client) callOptions() []googleapi.CallOption {
	if c.apiKey == "" {
		return nil
	}

	return []googleapi.CallOption{googleapi.QueryParameter("key", c.apiKey)}
}

func wrapError(operation string, err error) error {
	// Cancellation is reported as-is so callers can tell it apart from failures.
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %s: %w", ErrRemote, operation, ErrNotFound)
		}

		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}

		return fmt.Errorf("%w: %s: status %d: %s", ErrRemote, operation, apiErr.Code, msg)
	}

	return fmt.Errorf("%w: %s: %w", ErrRemote, operation, err)
}

func convertVolume(v *books.Volume) book.SearchResultItem {
	item := book.SearchResultItem{
		ID:       v.Id,
		SelfLink: v.SelfLink,
	}

	info := v.VolumeInfo
	if info == nil {
		return item
	}

	item.VolumeInfo = book.VolumeInfo{
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Authors:       info.Authors,
		Description:   info.Description,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
	}

	if links := info.ImageLinks; links != nil {
		item.VolumeInfo.ImageLinks = book.ImageLinks{
			ExtraLarge:     links.ExtraLarge,
			Large:          links.Large,
			Medium:         links.Medium,
			Small:          links.Small,
			Thumbnail:      links.Thumbnail,
			SmallThumbnail: links.SmallThumbnail,
		}
	}

	return item
}
