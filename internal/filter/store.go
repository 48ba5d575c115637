package filter

import (
	"sort"
	"sync"
)

// Store holds a filter shared between views. Views subscribe to be told
// when it changes instead of listening for ambient events.
type Store struct {
	mu     sync.RWMutex
	spec   Spec
	nextID int
	subs   map[int]func(Spec)
}

// NewStore creates a store holding initial.
func NewStore(initial Spec) *Store {
	return &Store{spec: initial, subs: make(map[int]func(Spec))}
}

// Get returns the current filter.
func (s *Store) Get() Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// Set validates and stores a new filter, then notifies subscribers in
// subscription order. Subscribers run on the caller's goroutine.
func (s *Store) Set(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.spec = spec
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Spec), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(spec)
	}
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(Spec)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
