package http

import (
	"sync"

	"truetalent/internal/talent"
)

// Store holds the dataset snapshot served by the API. Replacing the snapshot
// is atomic with respect to readers, so a refresh never exposes a half-built
// dataset.
type Store struct {
	mu sync.RWMutex
	ds *talent.Dataset
}

// NewStore creates a store, optionally seeded with an initial dataset.
func NewStore(ds *talent.Dataset) *Store {
	return &Store{ds: ds}
}

// Dataset returns the current snapshot, or nil when no run has completed.
func (s *Store) Dataset() *talent.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Replace swaps in a newly built dataset.
func (s *Store) Replace(ds *talent.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
}
