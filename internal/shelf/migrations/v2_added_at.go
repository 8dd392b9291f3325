package migrations

import (
	"context"
	"database/sql"
)

func init() {
	Register(&v2AddedAt{})
}

// v2AddedAt records when a book was shelved so the shelf lists newest first.
type v2AddedAt struct{}

func (m *v2AddedAt) Version() int {
	return 2
}

func (m *v2AddedAt) Description() string {
	return "Add added_at column for shelf ordering"
}

func (m *v2AddedAt) Up(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`ALTER TABLE books ADD COLUMN added_at INTEGER NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_books_added_at ON books(added_at)`,
	}

	if err := ExecStatements(ctx, db, statements); err != nil {
		return err
	}

	// Rows shelved before this column existed get the migration time.
	_, _ = db.ExecContext(ctx, `UPDATE books SET added_at = CAST(strftime('%s','now') AS INTEGER) WHERE added_at = 0`)

	return nil
}
