package vstream

import (
	"context"
	"sync"
)

// A Relay is a mutable container for a single value of type T that multicasts
// updates to any number of subscribers. A relay always holds a value: it is
// constructed with a seed, and each call to [Relay.Set] replaces the current
// value and forwards it to every active subscription.
//
// A new subscription receives the current value as its first delivery, before
// any update published after the subscription was created (replay-1). Each
// subscription observes updates in publish order; no delivery order is
// guaranteed across distinct subscriptions.
//
// Setting a value on the relay does not block: each subscription buffers its
// undelivered values independently, so a slow consumer never stalls the
// publisher or its sibling subscribers.
type Relay[T any] struct {
	μ    sync.Mutex
	cur  T
	next int // next unassigned subscriber id
	subs map[int]*sink[T]
}

// NewRelay constructs a new Relay holding seed.
func NewRelay[T any](seed T) *Relay[T] {
	return &Relay[T]{cur: seed, subs: make(map[int]*sink[T])}
}

// Get returns the current value stored in r.
func (r *Relay[T]) Get() T {
	r.μ.Lock()
	defer r.μ.Unlock()
	return r.cur
}

// Set updates the value stored in r to v and delivers v to every active
// subscription. The update and the fan-out happen atomically with respect to
// [Relay.Subscribe]: a concurrent subscriber observes v either as its
// replayed first value or as a later delivery, never both and never neither.
func (r *Relay[T]) Set(v T) {
	r.μ.Lock()
	defer r.μ.Unlock()
	r.cur = v
	for _, s := range r.subs {
		s.push(v)
	}
}

// Subscribe registers a new subscription on r. The subscription's first
// delivered value is the value r holds at the moment of registration.
//
// The relay never ends a subscription on its own; delivery continues until
// the subscription's Cancel method is called.
func (r *Relay[T]) Subscribe() *Subscription[T] {
	r.μ.Lock()
	defer r.μ.Unlock()
	id := r.next
	r.next++
	snk := new(sink[T])
	snk.push(r.cur)
	r.subs[id] = snk
	return &Subscription[T]{relay: r, id: id, snk: snk}
}

// unsubscribe removes the subscriber with the given id, if present.
func (r *Relay[T]) unsubscribe(id int) {
	r.μ.Lock()
	defer r.μ.Unlock()
	delete(r.subs, id)
}

// A Subscription delivers the values published to a [Relay], beginning with
// the value the relay held when the subscription was created. It implements
// [Stream].
type Subscription[T any] struct {
	relay *Relay[T]
	id    int
	snk   *sink[T]
}

// Next delivers the next value published to the relay, blocking until a
// value is available, the subscription is cancelled, or ctx ends. After
// Cancel, Next reports [ErrEndOfStream].
func (s *Subscription[T]) Next(ctx context.Context) (T, error) { return s.snk.next(ctx) }

// Cancel removes the subscription from its relay and discards any buffered
// undelivered values. After Cancel, calls to Next report [ErrEndOfStream].
// Cancel is idempotent.
func (s *Subscription[T]) Cancel() {
	s.relay.unsubscribe(s.id)
	s.snk.close(true)
}
