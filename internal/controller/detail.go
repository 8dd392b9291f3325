package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/state"
)

// DetailController resolves one book, local shelf first, and adds it to or
// removes it from the shelf.
type DetailController struct {
	catalog Catalog
	shelf   Shelf

	scope       context.Context
	cancelScope context.CancelFunc

	mu      sync.Mutex
	state   state.BookDetails
	current *task
	subs    *broadcaster[state.BookDetails]
}

// NewDetailController starts in the loading state until LoadBook resolves.
func NewDetailController(parent context.Context, catalog Catalog, shelf Shelf) *DetailController {
	scope, cancel := context.WithCancel(parent)

	return &DetailController{
		catalog:     catalog,
		shelf:       shelf,
		scope:       scope,
		cancelScope: cancel,
		state:       state.DetailsLoading{},
		subs:        newBroadcaster[state.BookDetails](),
	}
}

// State returns the current detail state.
func (c *DetailController) State() state.BookDetails {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe streams detail states, starting with the current one.
func (c *DetailController) Subscribe(ctx context.Context) <-chan state.BookDetails {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subs.subscribe(ctx, c.state)
}

// LoadBook resolves id, cancelling any earlier load. It does nothing once
// the controller is closed.
func (c *DetailController) LoadBook(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scope.Err() != nil {
		return
	}

	c.current.stop()
	c.setLocked(state.DetailsLoading{})

	c.current = startTask(c.scope, func(ctx context.Context) {
		c.update(ctx, c.resolve(ctx, id))
	})
}

func (c *DetailController) resolve(ctx context.Context, id string) state.BookDetails {
	stored, err := c.shelf.Get(ctx, id)
	if err != nil {
		logger.Log.Debugf("Shelf lookup for %s failed: %v", id, err)

		return state.DetailsError{}
	}

	if stored != nil {
		return state.DetailsSuccess{Book: *stored, InShelf: true}
	}

	item, err := c.catalog.GetDetails(ctx, id)
	if err != nil {
		logger.Log.Debugf("Catalog lookup for %s failed: %v", id, err)

		return state.DetailsError{}
	}

	return state.DetailsSuccess{Book: item.ToBook(), InShelf: false}
}

// AddBook shelves the loaded book. Adding an already shelved book keeps the
// existing row.
func (c *DetailController) AddBook(ctx context.Context) error {
	loaded, err := c.loaded()
	if err != nil {
		return err
	}

	if _, err := c.shelf.Insert(ctx, loaded.Book); err != nil {
		return fmt.Errorf("add %s to shelf: %w", loaded.Book.ID, err)
	}

	logger.Log.Debugf("Added %s to the shelf", loaded.Book.ID)
	c.markShelved(loaded.Book, true)

	return nil
}

// RemoveBook deletes the loaded book from the shelf. Removing a book that is
// not shelved succeeds.
func (c *DetailController) RemoveBook(ctx context.Context) error {
	loaded, err := c.loaded()
	if err != nil {
		return err
	}

	if err := c.shelf.Delete(ctx, loaded.Book.ID); err != nil {
		return fmt.Errorf("remove %s from shelf: %w", loaded.Book.ID, err)
	}

	logger.Log.Debugf("Removed %s from the shelf", loaded.Book.ID)
	c.markShelved(loaded.Book, false)

	return nil
}

// Wait blocks until the most recent load has finished.
func (c *DetailController) Wait() {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()

	t.wait()
}

// Close cancels running work and closes every subscription.
func (c *DetailController) Close() {
	c.cancelScope()
	c.subs.close()
}

func (c *DetailController) loaded() (state.DetailsSuccess, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	success, ok := c.state.(state.DetailsSuccess)
	if !ok {
		return state.DetailsSuccess{}, fmt.Errorf("%w: no book loaded (%s)", ErrInvalidState, state.DescribeDetails(c.state))
	}

	if !success.IsValid() {
		return state.DetailsSuccess{}, fmt.Errorf("%w: loaded book has no id or title", ErrInvalidState)
	}

	return success, nil
}

// markShelved updates the shelf flag unless a different book was loaded
// while the mutation ran.
func (c *DetailController) markShelved(b book.Book, inShelf bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.state.(state.DetailsSuccess)
	if !ok || current.Book.ID != b.ID {
		return
	}

	c.setLocked(state.DetailsSuccess{Book: b, InShelf: inShelf})
}

func (c *DetailController) update(ctx context.Context, next state.BookDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	c.setLocked(next)
}

func (c *DetailController) setLocked(next state.BookDetails) {
	c.state = next
	logger.Log.Tracef("Detail state: %s", state.DescribeDetails(next))
	c.subs.publish(next)
}
