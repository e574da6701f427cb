package vstream

import (
	"context"
	"sync"
)

// A sink is a delivery endpoint shared by one producer and its consumers: a
// FIFO of undelivered values plus a signal channel that wakes any waiting
// consumers when the state changes. The producer never blocks on a push; a
// bounded sink discards according to its policy instead.
type sink[T any] struct {
	μ      sync.Mutex
	buf    []T
	ready  chan struct{} // lazily created by a waiter, closed on push or close
	closed bool
	limit  int           // maximum buffered values; 0 or less means unbounded
	drop   DiscardPolicy // applied when a bounded sink is full
}

// push buffers v for delivery and reports whether v was buffered (true) or
// discarded (false). A push to a closed sink is discarded. push never blocks.
func (s *sink[T]) push(v T) bool {
	s.μ.Lock()
	defer s.μ.Unlock()
	if s.closed {
		return false
	}
	if s.limit > 0 && len(s.buf) >= s.limit {
		if s.drop == DiscardNewest {
			return false
		}
		s.buf = s.buf[1:] // discard the oldest undelivered value
	}
	s.buf = append(s.buf, v)
	s.wakeLocked()
	return true
}

// close marks the sink finished. Values already buffered remain available
// unless discard is true, in which case they are dropped and the next pull
// reports the end immediately. close is idempotent, but a discard is honored
// even on a sink that is already closed: a cancellation must drop buffered
// values no matter whether it lands before or after the producer's own close.
func (s *sink[T]) close(discard bool) {
	s.μ.Lock()
	defer s.μ.Unlock()
	if discard {
		s.buf = nil
	}
	if s.closed {
		return
	}
	s.closed = true
	s.wakeLocked()
}

// wakeLocked wakes any goroutines blocked in next. The caller must hold s.μ.
func (s *sink[T]) wakeLocked() {
	if s.ready != nil {
		close(s.ready)
		s.ready = nil
	}
}

// next delivers the next buffered value, blocking until a value is available,
// the sink is closed and drained, or ctx ends. Each buffered value is
// delivered to exactly one caller. The lock is never held across a wait, so
// concurrent calls to next cannot deadlock one another.
func (s *sink[T]) next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.μ.Lock()
		if len(s.buf) > 0 {
			out := s.buf[0]
			s.buf = s.buf[1:]
			s.μ.Unlock()
			return out, nil
		}
		if s.closed {
			s.μ.Unlock()
			return zero, ErrEndOfStream
		}
		if s.ready == nil {
			s.ready = make(chan struct{})
		}
		ready := s.ready
		s.μ.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-ready:
			// State changed, go back and re-check.
		}
	}
}
