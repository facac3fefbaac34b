package settingsstore

import (
	"context"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps settings for the lifetime of the process.
type MemoryStore struct {
	c      *cache.Cache
	closed atomic.Bool
}

// NewMemoryStore creates an empty in-process store. Entries never expire.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrClosed
	}
	v, ok := s.c.Get(key)
	if !ok {
		return "", false, nil
	}
	str, _ := v.(string)
	return str, true, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

// Close marks the store unusable.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}
