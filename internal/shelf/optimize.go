package shelf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kedare/bookworm/internal/logger"
)

// OptimizationResult reports a VACUUM/ANALYZE run.
type OptimizationResult struct {
	SizeBefore int64
	SizeAfter  int64
	Duration   time.Duration
}

// SpaceSaved returns the number of bytes reclaimed.
func (r OptimizationResult) SpaceSaved() int64 {
	return r.SizeBefore - r.SizeAfter
}

// Optimize runs database maintenance (VACUUM and ANALYZE).
func (s *Store) Optimize(ctx context.Context) (*OptimizationResult, error) {
	start := time.Now()
	defer func() { s.stats.recordOperation("Optimize", time.Since(start)) }()

	result := &OptimizationResult{SizeBefore: fileSize(s.dbPath)}

	logger.Log.Debug("Starting shelf database optimization")

	for _, stmt := range []string{"VACUUM", "ANALYZE"} {
		logSQL(stmt)

		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to run %s: %w", stmt, err)
		}
	}

	query := `INSERT OR REPLACE INTO metadata (key, value) VALUES ('last_optimized', ?)`
	now := s.now().UTC().Format(time.RFC3339)
	logSQL(query, now)

	if _, err := s.db.ExecContext(ctx, query, now); err != nil {
		logger.Log.Warnf("Failed to record optimization time: %v", err)
	}

	result.SizeAfter = fileSize(s.dbPath)
	result.Duration = time.Since(start)
	logger.Log.Debugf("Shelf optimization completed in %v", result.Duration)

	return result, nil
}

// Info describes the shelf database.
type Info struct {
	Path          string
	SizeBytes     int64
	SchemaVersion int
	BookCount     int64
	LastOptimized time.Time
	Stats         StatsSnapshot
}

// Info returns details about the database file and its contents.
func (s *Store) Info(ctx context.Context) (*Info, error) {
	info := &Info{
		Path:      s.dbPath,
		SizeBytes: fileSize(s.dbPath),
		Stats:     s.Stats(),
	}

	version, err := getSchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	info.SchemaVersion = version

	if info.BookCount, err = s.Count(ctx); err != nil {
		return nil, err
	}

	var lastOptimized string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_optimized'`).Scan(&lastOptimized); err == nil {
		if ts, err := time.Parse(time.RFC3339, lastOptimized); err == nil {
			info.LastOptimized = ts
		}
	}

	return info, nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}

	return fi.Size()
}
