package migrations

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestAllSortedAndLatest(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Version(), all[i].Version())
	}

	require.Equal(t, all[len(all)-1].Version(), LatestVersion())
	require.Greater(t, LatestVersion(), BaseVersion)
}

func TestGetPending(t *testing.T) {
	require.Len(t, GetPending(BaseVersion), len(All()))
	require.Empty(t, GetPending(LatestVersion()))

	pending := GetPending(2)
	for _, m := range pending {
		require.Greater(t, m.Version(), 2)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE books (id TEXT PRIMARY KEY, title TEXT NOT NULL)`)
	require.NoError(t, err)

	for pass := 0; pass < 2; pass++ {
		for _, m := range All() {
			require.NoError(t, m.Up(ctx, db), "v%d pass %d", m.Version(), pass)
		}
	}

	_, err = db.ExecContext(ctx, `INSERT INTO books (id, title, added_at, updated_at) VALUES ('a', 'A', 1, 2)`)
	require.NoError(t, err)
}

func TestIsIgnorableError(t *testing.T) {
	require.True(t, isIgnorableError(errors.New("SQL logic error: duplicate column name: added_at")))
	require.True(t, isIgnorableError(errors.New("index idx_books_added_at already exists")))
	require.False(t, isIgnorableError(errors.New("no such table: books")))
}
