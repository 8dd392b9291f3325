package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/photo"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeCatalog answers from canned maps. Queries listed in gates block until
// the gate channel is closed, and then return their canned answer even when
// the caller's context was cancelled, simulating a response racing past
// cancellation.
type fakeCatalog struct {
	mu       sync.Mutex
	results  map[string]book.SearchResult
	details  map[string]book.SearchResultItem
	errs     map[string]error
	gates    map[string]chan struct{}
	started  chan string
	searches []string
	gets     []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: map[string]book.SearchResult{},
		details: map[string]book.SearchResultItem{},
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

func (f *fakeCatalog) Search(_ context.Context, query string) (book.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	gate := f.gates[query]
	result, err := f.results[query], f.errs[query]
	f.mu.Unlock()

	f.started <- query

	if gate != nil {
		<-gate
	}

	return result, err
}

func (f *fakeCatalog) GetDetails(_ context.Context, id string) (book.SearchResultItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gets = append(f.gets, id)

	if err := f.errs[id]; err != nil {
		return book.SearchResultItem{}, err
	}

	item, ok := f.details[id]
	if !ok {
		return book.SearchResultItem{}, errors.New("volume not found")
	}

	return item, nil
}

func (f *fakeCatalog) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.searches...)
}

func (f *fakeCatalog) detailCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.gets...)
}

type fakePhotos struct {
	mu         sync.Mutex
	uploadErr  error
	detectErr  error
	fragments  []string
	uploadGate chan struct{}
	uploads    []string
	detects    []string
}

func (f *fakePhotos) Upload(ctx context.Context, path string) (photo.UploadedPhoto, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, path)
	gate := f.uploadGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return photo.UploadedPhoto{}, ctx.Err()
		}
	}

	if f.uploadErr != nil {
		return photo.UploadedPhoto{}, f.uploadErr
	}

	return photo.UploadedPhoto{Name: "photos/" + path, ETag: "etag"}, nil
}

func (f *fakePhotos) DetectText(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detects = append(f.detects, key)

	if f.detectErr != nil {
		return nil, f.detectErr
	}

	return f.fragments, nil
}

func (f *fakePhotos) uploadCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.uploads...)
}

// memoryShelf is an in-memory Shelf and ShelfFeed.
type memoryShelf struct {
	mu      sync.Mutex
	books   map[string]book.Book
	order   []string
	getErr  error
	subs    []chan []book.Book
	inserts int
}

func newMemoryShelf(books ...book.Book) *memoryShelf {
	s := &memoryShelf{books: map[string]book.Book{}}
	for _, b := range books {
		s.books[b.ID] = b
		s.order = append(s.order, b.ID)
	}

	return s
}

func (s *memoryShelf) Get(_ context.Context, id string) (*book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	b, ok := s.books[id]
	if !ok {
		return nil, nil
	}

	return &b, nil
}

func (s *memoryShelf) Insert(_ context.Context, b book.Book) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++

	if _, ok := s.books[b.ID]; ok {
		return false, nil
	}

	s.books[b.ID] = b
	s.order = append(s.order, b.ID)
	s.publishLocked()

	return true, nil
}

func (s *memoryShelf) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return nil
	}

	delete(s.books, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	s.publishLocked()

	return nil
}

func (s *memoryShelf) Subscribe(ctx context.Context) (<-chan []book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []book.Book, 16)
	ch <- s.listLocked()
	s.subs = append(s.subs, ch)

	context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subs {
			if sub == ch {
				close(ch)
				s.subs = append(s.subs[:i], s.subs[i+1:]...)

				return
			}
		}
	})

	return ch, nil
}

func (s *memoryShelf) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.books)
}

func (s *memoryShelf) listLocked() []book.Book {
	books := make([]book.Book, 0, len(s.order))
	for _, id := range s.order {
		books = append(books, s.books[id])
	}

	return books
}

func (s *memoryShelf) publishLocked() {
	books := s.listLocked()
	for _, ch := range s.subs {
		ch <- books
	}
}

func waitStarted(t *testing.T, f *fakeCatalog, query string) {
	t.Helper()

	select {
	case got := <-f.started:
		require.Equal(t, query, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("search %q never started", query)
	}
}

func item(id, title string) book.SearchResultItem {
	return book.SearchResultItem{
		ID:         id,
		SelfLink:   "https://books.example/volumes/" + id,
		VolumeInfo: book.VolumeInfo{Title: title, Authors: []string{"Author One", "Author Two"}},
	}
}

func resultOf(items ...book.SearchResultItem) book.SearchResult {
	return book.SearchResult{TotalItems: int64(len(items)), Items: items}
}
