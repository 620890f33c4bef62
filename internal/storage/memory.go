package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and as a last-resort
// fallback when the database cannot be opened.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (s *MemoryStore) GetRecord(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[name]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) PutRecord(_ context.Context, name string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = value
	return nil
}

func (s *MemoryStore) DeleteRecord(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}
