package credential

import (
	"context"
	"sync"
)

// MemoryStore is a process-local [Store] for tests and single-process embedding.
type MemoryStore struct {
	mu      sync.Mutex
	pair    Pair
	present bool
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Get(_ context.Context) (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.present {
		return Pair{}, ErrNotFound
	}
	return s.pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Set(_ context.Context, pair Pair) error {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return ErrIncompletePair
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = pair
	s.present = true
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}
	s.present = false
	return nil
}
