// Package memory provides an in-process key-value backing store, used for
// tests and for running the agent without external storage.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	values map[string]string
	mu     sync.RWMutex
}

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
