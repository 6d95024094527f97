package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. It backs tests and the "memory" storage driver.
type MemoryStore struct {
	mu            sync.RWMutex
	values        map[string]string
	maxValueBytes int
}

// NewMemoryStore constructs an empty store. A positive maxValueBytes enables the quota check.
func NewMemoryStore(maxValueBytes int) *MemoryStore {
	return &MemoryStore{
		values:        make(map[string]string),
		maxValueBytes: maxValueBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := checkQuota(key, value, s.maxValueBytes); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Keys returns a snapshot of the stored keys in no particular order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	return keys
}
