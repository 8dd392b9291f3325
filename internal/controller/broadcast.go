package controller

import (
	"context"
	"sync"
)

// broadcaster fans state values out to subscribers. Each subscriber channel
// holds at most one value; an unread value is replaced by the newer one, so
// publishers never block and readers always converge on the latest state.
type broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	closed bool
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[int]chan T)}
}

// subscribe registers a channel primed with current. It is closed when ctx
// is done or the broadcaster is closed.
func (b *broadcaster[T]) subscribe(ctx context.Context, current T) <-chan T {
	ch := make(chan T, 1)
	ch <- current

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)

		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if sub, ok := b.subs[id]; ok {
			close(sub)
			delete(b.subs, id)
		}
	})

	return ch
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- v:
			continue
		default:
		}

		select {
		case <-ch:
		default:
		}

		ch <- v
	}
}

func (b *broadcaster[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
