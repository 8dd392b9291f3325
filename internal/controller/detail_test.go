package controller

import (
	"context"
	"testing"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetail(t *testing.T, catalog *fakeCatalog, shelf *memoryShelf) *DetailController {
	t.Helper()

	c := NewDetailController(context.Background(), catalog, shelf)
	t.Cleanup(c.Close)

	return c
}

func TestDetailStartsLoading(t *testing.T) {
	c := newDetail(t, newFakeCatalog(), newMemoryShelf())

	assert.Equal(t, state.DetailsLoading{}, c.State())
}

func TestLoadBookFromCatalogThenAdd(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["X"] = item("X", "Remote Book")
	shelf := newMemoryShelf()
	c := newDetail(t, catalog, shelf)

	c.LoadBook("X")
	c.Wait()

	loaded, ok := c.State().(state.DetailsSuccess)
	require.True(t, ok, "got %T", c.State())
	assert.False(t, loaded.InShelf)
	assert.Equal(t, "Remote Book", loaded.Book.Title)

	require.NoError(t, c.AddBook(context.Background()))

	shelved, ok := c.State().(state.DetailsSuccess)
	require.True(t, ok)
	assert.True(t, shelved.InShelf)
	assert.Equal(t, "X", shelved.Book.ID)

	stored, err := shelf.Get(context.Background(), "X")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Remote Book", stored.Title)
}

func TestLoadBookPrefersShelf(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["X"] = item("X", "Remote Title")
	shelf := newMemoryShelf(book.Book{ID: "X", Title: "Shelved Title"})
	c := newDetail(t, catalog, shelf)

	c.LoadBook("X")
	c.Wait()

	assert.Equal(t, state.DetailsSuccess{Book: book.Book{ID: "X", Title: "Shelved Title"}, InShelf: true}, c.State())
	assert.Empty(t, catalog.detailCalls(), "catalog must not be queried for a shelved book")
}

func TestLoadBookFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeCatalog, *memoryShelf)
	}{
		{
			name:  "catalog error",
			setup: func(c *fakeCatalog, _ *memoryShelf) { c.errs["X"] = errBoom },
		},
		{
			name:  "unknown id",
			setup: func(*fakeCatalog, *memoryShelf) {},
		},
		{
			name:  "shelf error",
			setup: func(_ *fakeCatalog, s *memoryShelf) { s.getErr = errBoom },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newFakeCatalog()
			shelf := newMemoryShelf()
			tt.setup(catalog, shelf)
			c := newDetail(t, catalog, shelf)

			c.LoadBook("X")
			c.Wait()

			assert.Equal(t, state.DetailsError{}, c.State())
		})
	}
}

func TestAddBookTwiceKeepsOneRow(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["X"] = item("X", "Remote Book")
	shelf := newMemoryShelf()
	c := newDetail(t, catalog, shelf)

	c.LoadBook("X")
	c.Wait()

	require.NoError(t, c.AddBook(context.Background()))
	require.NoError(t, c.AddBook(context.Background()))

	assert.Equal(t, 1, shelf.count())
	assert.True(t, c.State().(state.DetailsSuccess).InShelf)
}

func TestRemoveBook(t *testing.T) {
	t.Run("shelved book", func(t *testing.T) {
		shelf := newMemoryShelf(book.Book{ID: "X", Title: "Shelved"})
		c := newDetail(t, newFakeCatalog(), shelf)

		c.LoadBook("X")
		c.Wait()

		require.NoError(t, c.RemoveBook(context.Background()))

		assert.Equal(t, 0, shelf.count())
		assert.Equal(t, state.DetailsSuccess{Book: book.Book{ID: "X", Title: "Shelved"}, InShelf: false}, c.State())
	})

	t.Run("absent book", func(t *testing.T) {
		catalog := newFakeCatalog()
		catalog.details["X"] = item("X", "Remote Book")
		shelf := newMemoryShelf(book.Book{ID: "Y", Title: "Other"})
		c := newDetail(t, catalog, shelf)

		c.LoadBook("X")
		c.Wait()

		require.NoError(t, c.RemoveBook(context.Background()))

		assert.Equal(t, 1, shelf.count())
		assert.False(t, c.State().(state.DetailsSuccess).InShelf)
	})
}

func TestMutationsRequireLoadedBook(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeCatalog)
		load  bool
	}{
		{name: "loading", load: false},
		{name: "error", setup: func(c *fakeCatalog) { c.errs["X"] = errBoom }, load: true},
		{
			name:  "book without title",
			setup: func(c *fakeCatalog) { c.details["X"] = book.SearchResultItem{ID: "X"} },
			load:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newFakeCatalog()
			if tt.setup != nil {
				tt.setup(catalog)
			}

			shelf := newMemoryShelf()
			c := newDetail(t, catalog, shelf)

			if tt.load {
				c.LoadBook("X")
				c.Wait()
			}

			before := c.State()

			require.ErrorIs(t, c.AddBook(context.Background()), ErrInvalidState)
			require.ErrorIs(t, c.RemoveBook(context.Background()), ErrInvalidState)

			assert.Equal(t, before, c.State())
			assert.Equal(t, 0, shelf.inserts)
		})
	}
}

func TestLoadBookReplacesPrevious(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["A"] = item("A", "First")
	catalog.details["B"] = item("B", "Second")
	c := newDetail(t, catalog, newMemoryShelf())

	c.LoadBook("A")
	c.LoadBook("B")
	c.Wait()

	loaded, ok := c.State().(state.DetailsSuccess)
	require.True(t, ok)
	assert.Equal(t, "B", loaded.Book.ID)
}

func TestDetailSubscribe(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["X"] = item("X", "Remote Book")
	c := NewDetailController(context.Background(), catalog, newMemoryShelf())

	updates := c.Subscribe(context.Background())
	assert.Equal(t, state.DetailsLoading{}, <-updates)

	c.LoadBook("X")
	c.Wait()

	var last state.BookDetails
	c.Close()

	for v := range updates {
		last = v
	}

	assert.IsType(t, state.DetailsSuccess{}, last)
}

func TestLoadBookAfterCloseIsIgnored(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.details["X"] = item("X", "Remote Book")
	c := NewDetailController(context.Background(), catalog, newMemoryShelf())

	c.Close()
	c.LoadBook("X")
	c.Wait()

	assert.Equal(t, state.DetailsLoading{}, c.State())
	assert.Empty(t, catalog.detailCalls())
}
