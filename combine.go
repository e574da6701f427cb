package vstream

import (
	"context"
	"sync"
)

// A Pair holds the most recent values delivered by the two sides of a
// combined stream.
type Pair[A, B any] struct {
	A A
	B B
}

// CombineLatest merges two streams into a single stream of pairs.
//
// Each source is drained by its own background goroutine. No pair is emitted
// until both sources have delivered at least one value; thereafter, every
// value from either source emits a new pair holding that value together with
// the other source's most recent value. Pairs are emitted in the interleaved
// order the source values arrived.
//
// The merged stream ends only when both sources have ended. A source that
// ends early stops contributing fresh values, but the surviving source keeps
// producing pairs using the ended source's last value. An error from either
// source is treated as that source ending; it is not reported to the
// consumer of the merged stream.
//
// Cancelling ctx, or calling the result's Cancel method, stops both
// background goroutines.
func CombineLatest[A, B any](ctx context.Context, a Stream[A], b Stream[B]) *Combined[A, B] {
	cctx, cancel := context.WithCancel(ctx)
	c := &Combined[A, B]{stop: cancel}
	go pump(cctx, a, c.updateA, c.finishA)
	go pump(cctx, b, c.updateB, c.finishB)
	return c
}

// pump drains src, routing each value to update and the end of the stream to
// finish. Any error from src, including ctx ending, counts as the end.
func pump[T any](ctx context.Context, src Stream[T], update func(T), finish func()) {
	defer finish()
	for {
		v, err := src.Next(ctx)
		if err != nil {
			return
		}
		update(v)
	}
}

// A Combined is the merged stream produced by [CombineLatest]. It implements
// [Stream].
type Combined[A, B any] struct {
	stop context.CancelFunc // stops both pumps
	out  sink[Pair[A, B]]

	μ            sync.Mutex
	lastA        A
	lastB        B
	okA, okB     bool // each side has delivered at least once
	doneA, doneB bool
	cancelled    bool
}

// Next delivers the next pair, blocking until a pair is available, the
// merged stream ends, or ctx ends. Once both sources have ended and all
// emitted pairs have been delivered, Next reports [ErrEndOfStream].
func (c *Combined[A, B]) Next(ctx context.Context) (Pair[A, B], error) { return c.out.next(ctx) }

// Cancel stops both source pumps and ends the merged stream, discarding any
// emitted but undelivered pairs. No pair is emitted after Cancel returns,
// even for source values already in flight. Cancel is idempotent.
func (c *Combined[A, B]) Cancel() {
	c.μ.Lock()
	c.cancelled = true
	c.μ.Unlock()
	c.stop()
	c.out.close(true)
}

func (c *Combined[A, B]) updateA(v A) {
	c.μ.Lock()
	defer c.μ.Unlock()
	if c.cancelled {
		return
	}
	c.lastA, c.okA = v, true
	c.emitLocked()
}

func (c *Combined[A, B]) updateB(v B) {
	c.μ.Lock()
	defer c.μ.Unlock()
	if c.cancelled {
		return
	}
	c.lastB, c.okB = v, true
	c.emitLocked()
}

// emitLocked emits the current pair if both sides are primed. The caller
// must hold c.μ, which serializes emission with updates from both pumps.
func (c *Combined[A, B]) emitLocked() {
	if c.okA && c.okB {
		c.out.push(Pair[A, B]{A: c.lastA, B: c.lastB})
	}
}

func (c *Combined[A, B]) finishA() {
	c.μ.Lock()
	defer c.μ.Unlock()
	c.doneA = true
	c.finishLocked()
}

func (c *Combined[A, B]) finishB() {
	c.μ.Lock()
	defer c.μ.Unlock()
	c.doneB = true
	c.finishLocked()
}

// finishLocked ends the merged stream once both sides have finished. Pairs
// already emitted remain available to Next. The caller must hold c.μ.
func (c *Combined[A, B]) finishLocked() {
	if c.doneA && c.doneB {
		c.stop() // release the derived context
		c.out.close(false)
	}
}
