package vstream

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is the sentinel error reported by [Recorder.Next] when its
// deadline elapses before a value arrives or the source ends.
var ErrTimeout = errors.New("timed out awaiting a value")

// A DiscardPolicy selects which values a bounded [Recorder] discards when
// its buffer is full.
type DiscardPolicy int

const (
	DiscardNone   DiscardPolicy = iota // unbounded buffer, nothing discarded
	DiscardOldest                      // discard the oldest undelivered value
	DiscardNewest                      // discard the incoming value
)

// Record wraps src in a [Recorder] that continuously drains it on a
// background goroutine, converting push-style delivery into a poll-style
// interface with bounded waits.
//
// If limit > 0 the recorder buffers at most limit undelivered values and
// discards according to drop, which must be [DiscardOldest] or
// [DiscardNewest]. If limit <= 0 the buffer is unbounded and drop must be
// [DiscardNone]. Record panics on any other combination.
//
// The goroutine runs until src ends, ctx ends, or the recorder is cancelled.
// An error from src is treated as a normal end of the source; it is not
// reported to callers of Next.
func Record[T any](ctx context.Context, src Stream[T], limit int, drop DiscardPolicy) *Recorder[T] {
	if limit > 0 {
		if drop != DiscardOldest && drop != DiscardNewest {
			panic(fmt.Sprintf("invalid discard policy %d for a bounded recorder", drop))
		}
	} else if drop != DiscardNone {
		panic("discard policy requires a positive limit")
	}
	cctx, cancel := context.WithCancel(ctx)
	r := &Recorder[T]{stop: cancel, done: make(chan struct{})}
	r.out.limit, r.out.drop = limit, drop
	go pump(cctx, src, func(v T) { r.out.push(v) }, func() {
		r.out.close(false) // deliver what is buffered, then report the end
		r.stop()
		close(r.done)
	})
	return r
}

// A Recorder adapts a [Stream] to pull-based consumption with per-call
// timeouts. Values are delivered in the order the source produced them,
// subject to the recorder's discard policy.
type Recorder[T any] struct {
	stop context.CancelFunc // stops the pump
	done chan struct{}      // closed when the pump has stopped
	out  sink[T]
}

// Next delivers the next recorded value, waiting at most the given timeout.
// If no value arrives in time, Next reports [ErrTimeout]. If the source has
// ended and every delivered value has been consumed, or the recorder has
// been cancelled, Next reports [ErrEndOfStream]. Next is safe for concurrent
// use by multiple goroutines.
func (r *Recorder[T]) Next(timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	v, err := r.out.next(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		var zero T
		return zero, ErrTimeout
	}
	return v, err
}

// Cancel stops the recorder's pump and discards any buffered values, so that
// subsequent calls to Next report [ErrEndOfStream] without waiting. Cancel
// is idempotent. Use [Recorder.Done] to await the pump's exit.
func (r *Recorder[T]) Cancel() {
	r.stop()
	r.out.close(true)
}

// Done returns a channel that is closed once the background pump has
// stopped, whether because the source ended, the surrounding context ended,
// or the recorder was cancelled.
func (r *Recorder[T]) Done() <-chan struct{} { return r.done }
