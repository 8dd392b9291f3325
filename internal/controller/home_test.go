package controller

import (
	"context"
	"testing"
	"time"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeTransitions(t *testing.T) {
	shelf := newMemoryShelf(book.Book{ID: "A", Title: "Alpha"})
	c := NewHomeController(context.Background(), shelf)
	t.Cleanup(c.Close)

	assert.Equal(t, state.HomeInit{}, c.State())

	require.NoError(t, c.Start(context.Background()))
	require.Eventually(t, func() bool {
		_, ok := c.State().(state.HomeShelf)

		return ok
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, state.HomeShelf{Books: []book.Book{{ID: "A", Title: "Alpha"}}}, c.State())

	c.OnSearchbarInput("sap")
	assert.Equal(t, state.HomeSearch{}, c.State())

	c.OnSearchbarInput("")
	assert.IsType(t, state.HomeShelf{}, c.State())

	c.OnSearchbarInput("x")
	c.Reset()
	assert.IsType(t, state.HomeShelf{}, c.State())
}

func TestHomeFollowsShelf(t *testing.T) {
	shelf := newMemoryShelf()
	c := NewHomeController(context.Background(), shelf)
	t.Cleanup(c.Close)

	require.NoError(t, c.Start(context.Background()))

	_, err := shelf.Insert(context.Background(), book.Book{ID: "B", Title: "Beta"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(c.Books()) == 1
	}, time.Second, 5*time.Millisecond)

	c.OnSearchbarInput("query")
	require.NoError(t, shelf.Delete(context.Background(), "B"))

	require.Eventually(t, func() bool {
		return len(c.Books()) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, state.HomeSearch{}, c.State(), "shelf changes must not leave search mode")
}

func TestHomeSearchBeforeShelfLoads(t *testing.T) {
	c := NewHomeController(context.Background(), newMemoryShelf())
	t.Cleanup(c.Close)

	c.OnSearchbarInput("abc")
	assert.Equal(t, state.HomeSearch{}, c.State())

	c.Reset()
	assert.Equal(t, state.HomeInit{}, c.State())
}

func TestHomeCloseEndsSubscriptions(t *testing.T) {
	shelf := newMemoryShelf()
	c := NewHomeController(context.Background(), shelf)
	require.NoError(t, c.Start(context.Background()))

	updates := c.Subscribe(context.Background())
	c.Close()

	for range updates {
	}

	shelf.mu.Lock()
	defer shelf.mu.Unlock()
	assert.Empty(t, shelf.subs, "closing must release the shelf subscription")
}
