package shelf

import (
	"context"

	"github.com/kedare/bookworm/internal/book"
	"github.com/kedare/bookworm/internal/logger"
)

// Subscribe returns a channel that receives the full shelf immediately and
// again after every mutation. Slow readers only see the latest list. The
// channel is closed when ctx is done or the store is closed.
func (s *Store) Subscribe(ctx context.Context) (<-chan []book.Book, error) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []book.Book, 1)
	ch <- books

	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()

		return nil, ErrClosed
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}

		s.subMu.Lock()
		defer s.subMu.Unlock()

		if sub, ok := s.subs[id]; ok {
			close(sub)
			delete(s.subs, id)
		}
	}()

	return ch, nil
}

// notify pushes the current shelf to every subscriber. pubMu orders the
// list reads, so a subscriber never receives an older list after a newer one.
func (s *Store) notify(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.subMu.Lock()
	empty := len(s.subs) == 0
	s.subMu.Unlock()

	if empty {
		return
	}

	// The mutation already happened; a cancelled caller must not hide it.
	books, err := s.List(context.WithoutCancel(ctx))
	if err != nil {
		logger.Log.Warnf("Failed to refresh shelf subscribers: %v", err)

		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		publishLatest(ch, books)
	}
}

// publishLatest replaces any unread value in ch with books. Callers hold
// subMu, so the second send cannot block.
func publishLatest(ch chan []book.Book, books []book.Book) {
	select {
	case ch <- books:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	ch <- books
}
