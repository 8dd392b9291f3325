package shelf

import (
	"context"
	"errors"
	"sync"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultRefreshConcurrency bounds parallel catalog lookups during Refresh.
const DefaultRefreshConcurrency = 4

// DetailsFetcher resolves a volume id against the catalog.
type DetailsFetcher interface {
	GetDetails(ctx context.Context, id string) (book.SearchResultItem, error)
}

// RefreshProgress is called after each book finishes, from worker goroutines.
type RefreshProgress func(done, total int, id string, err error)

// RefreshFailure records a book that could not be refreshed.
type RefreshFailure struct {
	ID  string
	Err error
}

// RefreshResult summarizes a Refresh run.
type RefreshResult struct {
	Total    int
	Updated  int
	Failures []RefreshFailure
}

// Refresh re-fetches every shelved book from the catalog and rewrites its
// catalog fields. Individual failures are collected; only cancellation and
// store errors abort the run.
func (s *Store) Refresh(ctx context.Context, fetcher DetailsFetcher, concurrency int, progress RefreshProgress) (*RefreshResult, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if concurrency < 1 {
		concurrency = DefaultRefreshConcurrency
	}

	result := &RefreshResult{Total: len(books)}

	var (
		mu   sync.Mutex
		done int
	)

	finish := func(id string, err error) {
		mu.Lock()
		done++
		if err != nil {
			result.Failures = append(result.Failures, RefreshFailure{ID: id, Err: err})
		} else {
			result.Updated++
		}
		n := done
		mu.Unlock()

		if progress != nil {
			progress(n, len(books), id, err)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, stored := range books {
		eg.Go(func() error {
			item, err := fetcher.GetDetails(egCtx, stored.ID)
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}

				logger.Log.Debugf("Failed to refresh %s: %v", stored.ID, err)
				finish(stored.ID, err)

				return nil
			}

			if err := s.Update(egCtx, stored.WithCatalogData(item.ToBook())); err != nil {
				if errors.Is(err, ErrNotFound) {
					// Removed while the refresh was running.
					finish(stored.ID, err)

					return nil
				}

				return err
			}

			finish(stored.ID, nil)

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return result, err
	}

	logger.Log.Debugf("Shelf refresh finished: %d/%d updated", result.Updated, result.Total)

	return result, nil
}
