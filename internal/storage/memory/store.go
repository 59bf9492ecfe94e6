package memory

import (
	"context"
	"sync"

	"github.com/dtroode/certledger/internal/model"
)

var _ model.Store = (*Store)(nil)

// Store keeps ledger state in process memory. It backs the default
// configuration and the service tests.
type Store struct {
	mu    sync.RWMutex
	state map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{state: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.state[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

// Put replaces the value stored under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state, key)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}
