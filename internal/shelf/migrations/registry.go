// Package migrations provides schema migrations for the shelf database.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// BaseVersion is the schema created by the shelf's base statements.
const BaseVersion = 1

// Migration defines a database schema migration.
type Migration interface {
	// Version returns the target schema version after this migration is applied.
	Version() int

	// Description returns a human-readable description of what this migration does.
	Description() string

	// Up applies the migration. It must be idempotent.
	Up(ctx context.Context, db *sql.DB) error
}

var registry []Migration

// Register adds a migration to the registry; called from init() in each migration file.
func Register(m Migration) {
	registry = append(registry, m)
}

// All returns all registered migrations sorted by version.
func All() []Migration {
	sorted := make([]Migration, len(registry))
	copy(sorted, registry)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version() < sorted[j].Version()
	})

	return sorted
}

// LatestVersion returns the highest migration version available.
func LatestVersion() int {
	latest := BaseVersion
	for _, m := range registry {
		if m.Version() > latest {
			latest = m.Version()
		}
	}

	return latest
}

// GetPending returns migrations that need to be applied given the current version.
func GetPending(currentVersion int) []Migration {
	var pending []Migration

	for _, m := range All() {
		if m.Version() > currentVersion {
			pending = append(pending, m)
		}
	}

	return pending
}

// ExecStatements executes statements in order, ignoring "already exists"
// and "duplicate column" errors so migrations can be re-run.
func ExecStatements(ctx context.Context, db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil && !isIgnorableError(err) {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}

	return nil
}

func isIgnorableError(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
