package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/state"
)

// HomeController switches the home screen between the shelf and the search
// overlay and keeps the shelf view in sync with the store.
type HomeController struct {
	feed ShelfFeed

	scope       context.Context
	cancelScope context.CancelFunc

	mu        sync.Mutex
	state     state.Home
	books     []book.Book
	loaded    bool
	searching bool
	subs      *broadcaster[state.Home]
	feedDone  chan struct{}
}

// NewHomeController starts in HomeInit; Start begins following feed.
func NewHomeController(parent context.Context, feed ShelfFeed) *HomeController {
	scope, cancel := context.WithCancel(parent)

	return &HomeController{
		feed:        feed,
		scope:       scope,
		cancelScope: cancel,
		state:       state.HomeInit{},
		subs:        newBroadcaster[state.Home](),
	}
}

// Start follows the shelf feed until ctx is done or the controller is closed.
func (c *HomeController) Start(ctx context.Context) error {
	feedCtx, cancel := context.WithCancel(ctx)
	context.AfterFunc(c.scope, cancel)

	updates, err := c.feed.Subscribe(feedCtx)
	if err != nil {
		cancel()

		return fmt.Errorf("subscribe to shelf: %w", err)
	}

	done := make(chan struct{})

	c.mu.Lock()
	c.feedDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		for books := range updates {
			c.onShelf(books)
		}
	}()

	return nil
}

// State returns the current home state.
func (c *HomeController) State() state.Home {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Books returns the last shelf snapshot, even while searching.
func (c *HomeController) Books() []book.Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.books
}

// Subscribe streams home states, starting with the current one.
func (c *HomeController) Subscribe(ctx context.Context) <-chan state.Home {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subs.subscribe(ctx, c.state)
}

// OnSearchbarInput shows the search overlay for non-empty input and the
// shelf otherwise.
func (c *HomeController) OnSearchbarInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searching = s != ""
	c.refreshLocked()
}

// Reset leaves search mode.
func (c *HomeController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searching = false
	c.refreshLocked()
}

// Close stops following the shelf and closes every subscription.
func (c *HomeController) Close() {
	c.cancelScope()

	c.mu.Lock()
	done := c.feedDone
	c.mu.Unlock()

	if done != nil {
		<-done
	}

	c.subs.close()
}

func (c *HomeController) onShelf(books []book.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger.Log.Tracef("Shelf changed: %d books", len(books))

	c.books = books
	c.loaded = true
	c.refreshLocked()
}

func (c *HomeController) refreshLocked() {
	var next state.Home

	switch {
	case c.searching:
		next = state.HomeSearch{}
	case c.loaded:
		next = state.HomeShelf{Books: c.books}
	default:
		next = state.HomeInit{}
	}

	c.state = next
	c.subs.publish(next)
}
