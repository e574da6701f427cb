package vstream

import "sync"

// A Canceller is a handle to a cancellable unit of work, such as a
// [Subscription], [Combined], or [Recorder]. Cancel must be safe to call
// more than once.
type Canceller interface {
	Cancel()
}

// A CancelSet is a collection of [Canceller] handles for bulk lifetime
// management. A zero CancelSet is ready for use, but must not be copied
// after its first use.
type CancelSet struct {
	μ  sync.Mutex
	cs []Canceller
}

// Add adds c to the set.
func (s *CancelSet) Add(c Canceller) {
	s.μ.Lock()
	defer s.μ.Unlock()
	s.cs = append(s.cs, c)
}

// Remove removes c from the set without cancelling it, and reports whether
// it was present. Work tracked by a removed handle continues until the
// handle itself is cancelled.
func (s *CancelSet) Remove(c Canceller) bool {
	s.μ.Lock()
	defer s.μ.Unlock()
	for i, have := range s.cs {
		if have == c {
			s.cs = append(s.cs[:i], s.cs[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of handles currently in the set.
func (s *CancelSet) Len() int {
	s.μ.Lock()
	defer s.μ.Unlock()
	return len(s.cs)
}

// Cancel cancels every handle in the set and empties it. Calling Cancel on
// an empty set is a no-op, so repeated calls are safe.
func (s *CancelSet) Cancel() {
	s.μ.Lock()
	cs := s.cs
	s.cs = nil
	s.μ.Unlock()

	// Cancel outside the lock: a handle's Cancel may do arbitrary work.
	for _, c := range cs {
		c.Cancel()
	}
}
