// Package shelf persists the user's saved books in SQLite.
package shelf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
	_ "modernc.org/sqlite"
)

const (
	// FilePermissions keeps the database private to the user.
	FilePermissions = 0o600
	dirPermissions  = 0o700
)

var (
	ErrClosed      = errors.New("shelf store is closed")
	ErrNotFound    = errors.New("book is not on the shelf")
	ErrInvalidBook = errors.New("book has no id")
)

const bookColumns = `id, title, subtitle, authors, description, categories, self_link,
	average_rating, ratings_count, image_url, added_at, updated_at`

// Store is the shelf table plus its change subscribers.
type Store struct {
	db     *sql.DB
	dbPath string
	stats  *Stats
	now    func() time.Time

	pubMu  sync.Mutex
	subMu  sync.Mutex
	subs   map[int]chan []book.Book
	nextID int
	closed bool
	done   chan struct{}
}

// Open creates (if needed) and opens the shelf database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create shelf directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shelf database: %w", err)
	}

	// One connection serializes writers and keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if err := configure(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	if err := prepareSchema(ctx, db, path); err != nil {
		_ = db.Close()

		return nil, err
	}

	if err := os.Chmod(path, FilePermissions); err != nil {
		logger.Log.Debugf("Failed to restrict shelf file permissions: %v", err)
	}

	logger.Log.Debugf("Shelf database opened at %s", path)

	return &Store{
		db:     db,
		dbPath: path,
		stats:  newStats(),
		now:    time.Now,
		subs:   make(map[int]chan []book.Book),
		done:   make(chan struct{}),
	}, nil
}

func configure(ctx context.Context, db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		logSQL(pragma)

		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to configure shelf database: %w", err)
		}
	}

	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.dbPath
}

// Get returns the book with id, or nil when it is not shelved.
func (s *Store) Get(ctx context.Context, id string) (*book.Book, error) {
	start := time.Now()
	defer func() { s.stats.recordOperation("Get", time.Since(start)) }()

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	logSQL(query, id)

	b, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		s.stats.recordMiss()

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get book %s: %w", id, err)
	}

	s.stats.recordHit()

	return &b, nil
}

// Insert shelves b. An existing row with the same id is left untouched; the
// returned flag reports whether a row was written.
func (s *Store) Insert(ctx context.Context, b book.Book) (bool, error) {
	if strings.TrimSpace(b.ID) == "" {
		return false, ErrInvalidBook
	}

	start := time.Now()
	defer func() { s.stats.recordOperation("Insert", time.Since(start)) }()

	query := `INSERT OR IGNORE INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`
	args := []any{
		b.ID, b.Title, nullString(b.Subtitle), b.Authors, nullString(b.Description),
		nullString(b.Categories), nullString(b.SelfLink), b.AverageRating, b.RatingsCount,
		nullString(b.ImageURL), s.now().Unix(),
	}
	logSQL(query, args...)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert book %s: %w", b.ID, err)
	}

	inserted := rowsAffected(res) > 0
	if inserted {
		s.notify(ctx)
	}

	return inserted, nil
}

// Update rewrites the catalog fields of an already shelved book.
func (s *Store) Update(ctx context.Context, b book.Book) error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrInvalidBook
	}

	start := time.Now()
	defer func() { s.stats.recordOperation("Update", time.Since(start)) }()

	query := `UPDATE books SET title = ?, subtitle = ?, authors = ?, description = ?, categories = ?,
		self_link = ?, average_rating = ?, ratings_count = ?, image_url = ?, updated_at = ?
		WHERE id = ?`
	args := []any{
		b.Title, nullString(b.Subtitle), b.Authors, nullString(b.Description), nullString(b.Categories),
		nullString(b.SelfLink), b.AverageRating, b.RatingsCount, nullString(b.ImageURL), s.now().Unix(),
		b.ID,
	}
	logSQL(query, args...)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update book %s: %w", b.ID, err)
	}

	if rowsAffected(res) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, b.ID)
	}

	s.notify(ctx)

	return nil
}

// Delete removes the book with id. Removing an absent book is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { s.stats.recordOperation("Delete", time.Since(start)) }()

	query := `DELETE FROM books WHERE id = ?`
	logSQL(query, id)

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, err)
	}

	if rowsAffected(res) > 0 {
		s.notify(ctx)
	}

	return nil
}

// List returns every shelved book, most recently added first.
func (s *Store) List(ctx context.Context) ([]book.Book, error) {
	start := time.Now()
	defer func() { s.stats.recordOperation("List", time.Since(start)) }()

	query := `SELECT ` + bookColumns + ` FROM books ORDER BY added_at DESC, rowid DESC`
	logSQL(query)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	books := []book.Book{}

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read book row: %w", err)
		}

		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return books, nil
}

// Count returns the number of shelved books.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM books`
	logSQL(query)

	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}

	return count, nil
}

// Close closes every subscription and the database.
func (s *Store) Close() error {
	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()

		return nil
	}

	s.closed = true
	close(s.done)
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()

	s.stats.log()

	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (book.Book, error) {
	var (
		b                                                book.Book
		subtitle, description, categories, selfLink, img sql.NullString
		addedAt                                          int64
		updatedAt                                        sql.NullInt64
	)

	err := row.Scan(&b.ID, &b.Title, &subtitle, &b.Authors, &description, &categories, &selfLink,
		&b.AverageRating, &b.RatingsCount, &img, &addedAt, &updatedAt)
	if err != nil {
		return book.Book{}, err
	}

	b.Subtitle = subtitle.String
	b.Description = description.String
	b.Categories = categories.String
	b.SelfLink = selfLink.String
	b.ImageURL = img.String

	if addedAt > 0 {
		b.AddedAt = time.Unix(addedAt, 0)
	}

	if updatedAt.Valid && updatedAt.Int64 > 0 {
		b.UpdatedAt = time.Unix(updatedAt.Int64, 0)
	}

	return b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}

	return n
}

func logSQL(query string, args ...any) {
	query = strings.Join(strings.Fields(query), " ")
	if len(args) == 0 {
		logger.Log.Tracef("SQL: %s", query)

		return
	}

	logger.Log.Tracef("SQL: %s %v", query, args)
}
