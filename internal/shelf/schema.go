package shelf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/shelf/migrations"
)

// Base schema (v1). Later columns come from the migrations package.
const (
	createMetadataTable = `
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`

	createBooksTable = `
		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			subtitle TEXT,
			authors TEXT NOT NULL DEFAULT '',
			description TEXT,
			categories TEXT,
			self_link TEXT,
			average_rating REAL NOT NULL DEFAULT 0,
			ratings_count INTEGER NOT NULL DEFAULT 0,
			image_url TEXT
		)`
)

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createMetadataTable, createBooksTable} {
		logSQL(stmt)

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	logger.Log.Debug("Base shelf schema initialized")

	return nil
}

// getSchemaVersion returns 0 for a database that has never been versioned.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int

	query := "SELECT value FROM metadata WHERE key = 'schema_version'"
	logSQL(query)

	err := db.QueryRowContext(ctx, query).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}

	return version, nil
}

func setSchemaVersion(ctx context.Context, db *sql.DB, version int) error {
	query := "INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)"
	logSQL(query, version)

	if _, err := db.ExecContext(ctx, query, version); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return nil
}

// prepareSchema brings db to the latest schema version.
func prepareSchema(ctx context.Context, db *sql.DB, dbPath string) error {
	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	if version == 0 {
		return initNewDatabase(ctx, db)
	}

	return migrateSchema(ctx, db, version, dbPath)
}

func initNewDatabase(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations.All() {
		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.Version(), err)
		}
	}

	return setSchemaVersion(ctx, db, migrations.LatestVersion())
}

func migrateSchema(ctx context.Context, db *sql.DB, currentVersion int, dbPath string) error {
	pending := migrations.GetPending(currentVersion)
	if len(pending) == 0 {
		return nil
	}

	target := migrations.LatestVersion()
	logger.Log.Debugf("Migrating shelf schema from version %d to %d", currentVersion, target)

	if err := backupDatabase(dbPath); err != nil {
		logger.Log.Warnf("Failed to create backup before migration: %v", err)
	}

	for _, m := range pending {
		logger.Log.Debugf("Applying migration v%d: %s", m.Version(), m.Description())

		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.Version(), err)
		}
	}

	if err := setSchemaVersion(ctx, db, target); err != nil {
		return err
	}

	removeBackup(dbPath)
	logger.Log.Debugf("Shelf schema migrated to version %d", target)

	return nil
}

func backupDatabase(dbPath string) error {
	src, err := os.Open(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to open database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(dbPath+".bak", os.O_RDWR|os.O_CREATE|os.O_TRUNC, FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy database to backup: %w", err)
	}

	logger.Log.Debugf("Created database backup at %s.bak", dbPath)

	return nil
}

func removeBackup(dbPath string) {
	if err := os.Remove(dbPath + ".bak"); err != nil && !os.IsNotExist(err) {
		logger.Log.Debugf("Failed to remove backup file: %v", err)
	}
}
