// Package vstream defines primitives for broadcasting and combining
// asynchronous sequences of values.
package vstream

import (
	"context"
	"errors"
	"sync"
)

// ErrEndOfStream is the sentinel error reported by a stream that has been
// exhausted and will never deliver another value.
var ErrEndOfStream = errors.New("end of stream")

// A Stream is a pull-based asynchronous sequence of values of type T.
//
// Next blocks until a value is available, the stream ends, or ctx ends.
// When the stream is exhausted, Next reports [ErrEndOfStream]; if ctx ends
// first, Next reports a zero value and the error from ctx. Any other error
// is a terminal failure of the stream.
type Stream[T any] interface {
	Next(ctx context.Context) (T, error)
}

// Slice returns a stream that delivers the given values in order, then ends.
// The stream is safe for concurrent use by multiple goroutines, each value
// being delivered to exactly one caller.
func Slice[T any](vs ...T) Stream[T] { return &sliceStream[T]{vs: vs} }

type sliceStream[T any] struct {
	μ  sync.Mutex
	vs []T
}

func (s *sliceStream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.μ.Lock()
	defer s.μ.Unlock()
	if len(s.vs) == 0 {
		return zero, ErrEndOfStream
	}
	out := s.vs[0]
	s.vs = s.vs[1:]
	return out, nil
}

// Chan returns a stream that delivers the values received from ch.
// Closing ch ends the stream.
func Chan[T any](ch <-chan T) Stream[T] { return chanStream[T](ch) }

type chanStream[T any] <-chan T

func (c chanStream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v, ok := <-c:
		if !ok {
			return zero, ErrEndOfStream
		}
		return v, nil
	}
}

// Func adapts fn to a [Stream] whose Next method calls fn directly.
// Errors reported by fn pass through to the caller unmodified, so fn should
// report [ErrEndOfStream] once it is exhausted.
func Func[T any](fn func(context.Context) (T, error)) Stream[T] { return funcStream[T](fn) }

type funcStream[T any] func(context.Context) (T, error)

func (f funcStream[T]) Next(ctx context.Context) (T, error) { return f(ctx) }

// Collect pulls values from s until it ends, and returns the values
// delivered in order. If s ends normally, the error is nil; otherwise
// Collect returns the values received so far along with the terminal error.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	for {
		v, err := s.Next(ctx)
		if errors.Is(err, ErrEndOfStream) {
			return out, nil
		} else if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// First pulls and returns a single value from s.
func First[T any](ctx context.Context, s Stream[T]) (T, error) { return s.Next(ctx) }
