// Package config resolves bookworm settings from defaults, .env files and
// BOOKWORM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kedare/bookworm/internal/logger"
)

const (
	DefaultCatalogBaseURL = "https://books.googleapis.com/"
	DefaultPhotoBaseURL   = "https://bookwormapp.co.in/"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultCatalogRate    = 5.0
	DefaultCatalogBurst   = 5

	// DataDir is created under the user's home directory.
	DataDir = ".bookworm"
	// DBFileName is the shelf database inside DataDir.
	DBFileName = "shelf.db"
	// EnvFileName is loaded from the working directory when present.
	EnvFileName = ".env"
)

// Environment variable names.
const (
	EnvCatalogBaseURL    = "BOOKWORM_CATALOG_URL"
	EnvCatalogAPIKey     = "BOOKWORM_CATALOG_API_KEY"
	EnvCatalogRate       = "BOOKWORM_CATALOG_RATE"
	EnvCatalogBurst      = "BOOKWORM_CATALOG_BURST"
	EnvPhotoBaseURL      = "BOOKWORM_PHOTO_URL"
	EnvPhotoTokenURL     = "BOOKWORM_PHOTO_TOKEN_URL"
	EnvPhotoClientID     = "BOOKWORM_PHOTO_CLIENT_ID"
	EnvPhotoClientSecret = "BOOKWORM_PHOTO_CLIENT_SECRET"
	EnvHTTPTimeout       = "BOOKWORM_HTTP_TIMEOUT"
	EnvDBPath            = "BOOKWORM_DB"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every runtime setting.
type Config struct {
	CatalogBaseURL string
	CatalogAPIKey  string
	// CatalogRate is the sustained catalog request rate per second.
	CatalogRate  float64
	CatalogBurst int

	PhotoBaseURL string
	// Client-credentials settings for the photo service. Auth is disabled
	// when PhotoTokenURL is empty.
	PhotoTokenURL     string
	PhotoClientID     string
	PhotoClientSecret string

	HTTPTimeout time.Duration
	DBPath      string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CatalogBaseURL: DefaultCatalogBaseURL,
		CatalogRate:    DefaultCatalogRate,
		CatalogBurst:   DefaultCatalogBurst,
		PhotoBaseURL:   DefaultPhotoBaseURL,
		HTTPTimeout:    DefaultHTTPTimeout,
		DBPath:         defaultDBPath(),
	}
}

// Load reads the given .env files (missing files are skipped), then overlays
// environment variables on top of Default. Variables already present in the
// environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := applyEnvFile(file); err != nil {
			return nil, err
		}
	}

	cfg := Default()

	setString(&cfg.CatalogBaseURL, EnvCatalogBaseURL)
	setString(&cfg.CatalogAPIKey, EnvCatalogAPIKey)
	setString(&cfg.PhotoBaseURL, EnvPhotoBaseURL)
	setString(&cfg.PhotoTokenURL, EnvPhotoTokenURL)
	setString(&cfg.PhotoClientID, EnvPhotoClientID)
	setString(&cfg.PhotoClientSecret, EnvPhotoClientSecret)
	setString(&cfg.DBPath, EnvDBPath)

	if v, ok := lookup(EnvCatalogRate); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvCatalogRate, v, err)
		}
		cfg.CatalogRate = rate
	}

	if v, ok := lookup(EnvCatalogBurst); ok {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvCatalogBurst, v, err)
		}
		cfg.CatalogBurst = burst
	}

	if v, ok := lookup(EnvHTTPTimeout); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvHTTPTimeout, v, err)
		}
		cfg.HTTPTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks URLs and numeric limits.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"catalog URL": c.CatalogBaseURL,
		"photo URL":   c.PhotoBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s %q is not an absolute URL", ErrInvalidConfig, name, raw)
		}
	}

	if c.CatalogRate <= 0 {
		return fmt.Errorf("%w: catalog rate must be positive, got %v", ErrInvalidConfig, c.CatalogRate)
	}

	if c.CatalogBurst < 1 {
		return fmt.Errorf("%w: catalog burst must be at least 1, got %d", ErrInvalidConfig, c.CatalogBurst)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: HTTP timeout must be positive, got %v", ErrInvalidConfig, c.HTTPTimeout)
	}

	if c.PhotoTokenURL != "" && (c.PhotoClientID == "" || c.PhotoClientSecret == "") {
		return fmt.Errorf("%w: %s requires %s and %s", ErrInvalidConfig, EnvPhotoTokenURL, EnvPhotoClientID, EnvPhotoClientSecret)
	}

	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}

	return nil
}

// PhotoAuthEnabled reports whether photo requests carry an OAuth2 token.
func (c *Config) PhotoAuthEnabled() bool {
	return c.PhotoTokenURL != ""
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Log.Debugf("Failed to resolve home directory, using working directory: %v", err)

		return filepath.Join(DataDir, DBFileName)
	}

	return filepath.Join(home, DataDir, DBFileName)
}

// applyEnvFile sets the variables of file that lookup reports as unset, so a
// variable exported empty in the shell still takes its .env value.
func applyEnvFile(file string) error {
	values, err := godotenv.Read(file)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", file, err)
	}

	applied := 0

	for key, value := range values {
		if _, ok := lookup(key); ok {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", key, file, err)
		}

		applied++
	}

	logger.Log.Debugf("Loaded %d of %d variable(s) from %s", applied, len(values), file)

	return nil
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}

	value = strings.TrimSpace(value)

	return value, value != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
