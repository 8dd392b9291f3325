package cmd

import (
	"context"
	"fmt"

	"github.com/kedare/bookworm/internal/catalog"
	"github.com/kedare/bookworm/internal/config"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/photo"
	"github.com/kedare/bookworm/internal/shelf"
	"github.com/kedare/bookworm/internal/transport"
	"github.com/kedare/bookworm/internal/version"
)

func newCatalogClient(ctx context.Context, cfg *config.Config) (*catalog.Client, error) {
	httpClient := transport.NewClient(transport.Options{
		Name:          "catalog",
		Timeout:       cfg.HTTPTimeout,
		UserAgent:     version.Get().UserAgent(),
		RatePerSecond: cfg.CatalogRate,
		Burst:         cfg.CatalogBurst,
	})

	client, err := catalog.NewClient(ctx, httpClient,
		catalog.WithBaseURL(cfg.CatalogBaseURL),
		catalog.WithAPIKey(cfg.CatalogAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	return client, nil
}

func newPhotoClient(ctx context.Context, cfg *config.Config) *photo.Client {
	userAgent := version.Get().UserAgent()

	httpClient := transport.NewClient(transport.Options{
		Name:      "photo",
		Timeout:   cfg.HTTPTimeout,
		UserAgent: userAgent,
	})

	if cfg.PhotoAuthEnabled() {
		logger.Log.Debugf("Photo service uses client credentials from %s", cfg.PhotoTokenURL)
	}

	httpClient = photo.AuthenticatedClient(ctx, httpClient, photo.Credentials{
		TokenURL:     cfg.PhotoTokenURL,
		ClientID:     cfg.PhotoClientID,
		ClientSecret: cfg.PhotoClientSecret,
	})

	return photo.NewClient(httpClient,
		photo.WithBaseURL(cfg.PhotoBaseURL),
		photo.WithUserAgent(userAgent),
	)
}

func openShelf(ctx context.Context, cfg *config.Config) (*shelf.Store, error) {
	store, err := shelf.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open shelf: %w", err)
	}

	return store, nil
}

func closeShelf(store *shelf.Store) {
	if err := store.Close(); err != nil {
		logger.Log.Warnf("Failed to close shelf: %v", err)
	}
}
