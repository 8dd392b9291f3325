package controller

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kedare/bookworm/internal/logger"
	"github.com/kedare/bookworm/internal/state"
)

// SearchSnapshot is the pair of states owned by SearchController.
type SearchSnapshot struct {
	Searchbar state.Searchbar
	Results   state.Results
}

// SearchController turns text input or a cover photo into catalog results.
// At most one query runs at a time; starting a new one cancels the previous
// task, and a cancelled task never writes state.
type SearchController struct {
	catalog Catalog
	photos  PhotoService

	scope       context.Context
	cancelScope context.CancelFunc

	mu        sync.Mutex
	searchbar state.Searchbar
	results   state.Results
	current   *task
	subs      *broadcaster[SearchSnapshot]
}

// NewSearchController creates a controller whose tasks live until parent is
// done or Close is called.
func NewSearchController(parent context.Context, catalog Catalog, photos PhotoService) *SearchController {
	scope, cancel := context.WithCancel(parent)

	return &SearchController{
		catalog:     catalog,
		photos:      photos,
		scope:       scope,
		cancelScope: cancel,
		searchbar:   state.SearchbarEmpty{},
		results:     state.ResultsEmpty{},
		subs:        newBroadcaster[SearchSnapshot](),
	}
}

// State returns the current snapshot.
func (c *SearchController) State() SearchSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// Subscribe streams snapshots, starting with the current one.
func (c *SearchController) Subscribe(ctx context.Context) <-chan SearchSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subs.subscribe(ctx, c.snapshotLocked())
}

// SetTextInput replaces the searchbar with s. Inputs longer than
// MinQueryLength start a search and show loading immediately; shorter ones
// clear the results. It does nothing once the controller is closed.
func (c *SearchController) SetTextInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scope.Err() != nil {
		return
	}

	c.current.stop()
	c.current = nil
	c.searchbar = state.SearchbarText{Query: s}

	if !isSearchable(s) {
		c.results = state.ResultsEmpty{}
		c.publishLocked()

		return
	}

	c.startTextQueryLocked(s)
}

// ImageSearch attaches photo and runs upload, text detection and search.
func (c *SearchController) ImageSearch(photo string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scope.Err() != nil {
		return
	}

	c.current.stop()
	c.searchbar = state.SearchbarImage{Photo: photo}
	c.results = state.ResultsLoading{}
	c.publishLocked()

	logger.Log.Debugf("Starting photo search for %s", photo)

	c.current = startTask(c.scope, func(ctx context.Context) {
		c.runPhotoPipeline(ctx, photo)
	})
}

// Retry re-issues the query held by the searchbar. A photo whose text was
// already detected is searched by its keywords; otherwise the whole photo
// pipeline runs again.
func (c *SearchController) Retry() {
	c.mu.Lock()
	bar := c.searchbar
	c.mu.Unlock()

	switch v := bar.(type) {
	case state.SearchbarEmpty:
		return
	case state.SearchbarText:
		c.SetTextInput(v.Query)
	case state.SearchbarImage:
		if v.Keywords == "" {
			c.ImageSearch(v.Photo)

			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.scope.Err() != nil {
			return
		}

		c.current.stop()
		c.searchbar = v
		c.startTextQueryLocked(v.Keywords)
	default:
		state.Unreachable(bar)
	}
}

// Reset cancels any running query and clears both states.
func (c *SearchController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current.stop()
	c.searchbar = state.SearchbarEmpty{}
	c.results = state.ResultsEmpty{}
	c.publishLocked()
}

// Wait blocks until the most recent task has finished.
func (c *SearchController) Wait() {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()

	t.wait()
}

// Close cancels running work and closes every subscription.
func (c *SearchController) Close() {
	c.cancelScope()
	c.subs.close()
}

func (c *SearchController) startTextQueryLocked(query string) {
	c.results = state.ResultsLoading{}
	c.publishLocked()

	c.current = startTask(c.scope, func(ctx context.Context) {
		c.runTextQuery(ctx, query)
	})
}

func (c *SearchController) runTextQuery(ctx context.Context, query string) {
	logger.Log.Debugf("Searching for %q", query)

	result, err := c.catalog.Search(ctx, query)
	if err != nil {
		c.setResults(ctx, state.ResultsError{Message: err.Error()})

		return
	}

	// Zero matches is a terminal, empty success.
	c.setResults(ctx, state.ResultsSuccess{Books: result.ToBooks()})
}

func (c *SearchController) runPhotoPipeline(ctx context.Context, photo string) {
	uploaded, err := c.photos.Upload(ctx, photo)
	if err != nil {
		c.setResults(ctx, state.ResultsError{Message: err.Error()})

		return
	}

	fragments, err := c.photos.DetectText(ctx, uploaded.Name)
	if err != nil {
		c.setResults(ctx, state.ResultsError{Message: err.Error()})

		return
	}

	if len(fragments) == 0 {
		c.setResults(ctx, state.ResultsError{Message: state.NoMatchesMessage})

		return
	}

	keywords := strings.Join(fragments, " ")
	logger.Log.Debugf("Photo %s resolved to %q", photo, keywords)

	if !c.update(ctx, func() {
		c.searchbar = state.SearchbarImage{Photo: photo, Keywords: keywords}
		c.results = state.ResultsLoading{}
	}) {
		return
	}

	c.runTextQuery(ctx, keywords)
}

func (c *SearchController) setResults(ctx context.Context, results state.Results) {
	c.update(ctx, func() { c.results = results })
}

// update applies mutate unless ctx was cancelled. Cancellation happens under
// c.mu, so the check and the write cannot interleave with a newer query.
func (c *SearchController) update(ctx context.Context, mutate func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		logger.Log.Tracef("Dropping state update from cancelled search")

		return false
	}

	mutate()
	c.publishLocked()

	return true
}

func (c *SearchController) snapshotLocked() SearchSnapshot {
	return SearchSnapshot{Searchbar: c.searchbar, Results: c.results}
}

func (c *SearchController) publishLocked() {
	snapshot := c.snapshotLocked()
	logger.Log.Tracef("Search state: %s / %s", state.DescribeSearchbar(snapshot.Searchbar), state.DescribeResults(snapshot.Results))
	c.subs.publish(snapshot)
}

func isSearchable(s string) bool {
	return utf8.RuneCountInString(s) > MinQueryLength
}
