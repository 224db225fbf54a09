package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrObjectNotFound is returned by MemoryStore for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// MemoryStore is a simple in-memory ObjectStore suitable for tests and
// early development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailPut and FailRemove, when set, make the corresponding operation
	// fail so tests can exercise compensation paths.
	FailPut    error
	FailRemove error
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, content []byte, contentType string) error {
	if s.FailPut != nil {
		return s.FailPut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(content))
	copy(buf, content)
	s.objects[key] = buf
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	buf := make([]byte, len(content))
	copy(buf, content)
	return buf, nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	if s.FailRemove != nil {
		return s.FailRemove
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
