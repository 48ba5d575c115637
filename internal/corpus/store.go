package corpus

import (
	"context"
	"errors"
	"sync"
)

// ErrNotLoaded is returned by Store.Current before the first successful load.
var ErrNotLoaded = errors.New("corpus not loaded")

// Store holds the current corpus and swaps it atomically on reload, so
// readers never observe a partially loaded snapshot.
type Store struct {
	provider Provider

	mu       sync.RWMutex
	current  *Corpus
	onReload []func(*Corpus)
}

// NewStore creates a store backed by provider. Call Reload to populate it.
func NewStore(provider Provider) *Store {
	return &Store{provider: provider}
}

// Reload loads a fresh corpus. On failure the previous snapshot is kept.
func (s *Store) Reload(ctx context.Context) error {
	c, err := s.provider.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = c
	hooks := append([]func(*Corpus){}, s.onReload...)
	s.mu.Unlock()

	for _, h := range hooks {
		h(c)
	}
	return nil
}

// Current returns the active snapshot.
func (s *Store) Current() (*Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// OnReload registers a callback run after each successful reload.
func (s *Store) OnReload(fn func(*Corpus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}
