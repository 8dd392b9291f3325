package migrations

import (
	"context"
	"database/sql"
)

func init() {
	Register(&v3UpdatedAt{})
}

// v3UpdatedAt tracks the last catalog refresh of each shelved book.
type v3UpdatedAt struct{}

func (m *v3UpdatedAt) Version() int {
	return 3
}

func (m *v3UpdatedAt) Description() string {
	return "Add updated_at column for catalog refreshes"
}

func (m *v3UpdatedAt) Up(ctx context.Context, db *sql.DB) error {
	return ExecStatements(ctx, db, []string{
		`ALTER TABLE books ADD COLUMN updated_at INTEGER`,
	})
}
