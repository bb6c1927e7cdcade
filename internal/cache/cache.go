package cache

import "sync"

// Store is the query-cache contract injected into services. Mutating
// operations invalidate the tag keys of every view they touch so dependent
// reads refetch instead of serving stale rows.
type Store interface {
	GetCached(key string) (interface{}, bool)
	SetCached(key string, value interface{})
	Invalidate(keys ...string)
}

// MemoryStore is a process-local Store backed by a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// NewMemoryStore creates an empty in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]interface{}),
	}
}

// GetCached returns the cached value for key, if present.
func (s *MemoryStore) GetCached(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// SetCached stores a value under key, replacing any previous entry.
func (s *MemoryStore) SetCached(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Invalidate drops the given keys from the cache.
func (s *MemoryStore) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// Clear drops every entry. Used by tests and on shutdown.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]interface{})
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
