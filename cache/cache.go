// Package cache holds the data plugins render from, decoupling fetching from
// drawing. Plugins read from the store on every frame; update workers and
// test harnesses write to it.
package cache

import (
	"sync"
	"time"
)

// Store is a concurrency-safe key/value store with per-key write timestamps.
// The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value    any
	storedAt time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock returns an empty store stamping writes with now. Used by tests
// and simulated renders.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.value, ok
}

// GetDefault returns the value stored under key, or def when absent.
func (s *Store) GetDefault(key string, def any) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// Set stores value under key, recording the write time.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, storedAt: s.now()}
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// StoredAt returns when key was last written.
func (s *Store) StoredAt(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.storedAt, ok
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Seed stores every entry of values. It is how one-shot renders inject mock
// data without running a plugin's update path.
func (s *Store) Seed(values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range values {
		s.entries[k] = entry{value: v, storedAt: now}
	}
}

// Keys returns the stored keys in unspecified order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
