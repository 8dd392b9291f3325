// Package controller holds the screen-level state machines shared by the
// command line and the terminal UI. Each controller owns its state behind a
// mutex, runs remote calls on cancellable tasks and publishes every change to
// subscribers.
package controller

import (
	"context"
	"errors"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/photo"
)

// MinQueryLength is the longest input that does not trigger a catalog search.
const MinQueryLength = 3

// ErrInvalidState is returned when a shelf mutation is requested without a
// valid loaded book.
var ErrInvalidState = errors.New("invalid state")

// Catalog is the remote book catalog.
type Catalog interface {
	Search(ctx context.Context, query string) (book.SearchResult, error)
	GetDetails(ctx context.Context, id string) (book.SearchResultItem, error)
}

// PhotoService uploads photos and extracts their text.
type PhotoService interface {
	Upload(ctx context.Context, path string) (photo.UploadedPhoto, error)
	DetectText(ctx context.Context, key string) ([]string, error)
}

// Shelf is the local book store as seen by the detail screen.
type Shelf interface {
	Get(ctx context.Context, id string) (*book.Book, error)
	Insert(ctx context.Context, b book.Book) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ShelfFeed streams the full shelf after every change.
type ShelfFeed interface {
	Subscribe(ctx context.Context) (<-chan []book.Book, error)
}

// task is one cancellable unit of async work owned by a controller.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startTask(parent context.Context, fn func(ctx context.Context)) *task {
	ctx, cancel := context.WithCancel(parent)
	t := &task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		fn(ctx)
	}()

	return t
}

func (t *task) stop() {
	if t != nil {
		t.cancel()
	}
}

func (t *task) wait() {
	if t != nil {
		<-t.done
	}
}
