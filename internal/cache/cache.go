// Package cache provides a small in-process TTL cache used for per-user
// statistics snapshots. Correctness never depends on a cache hit; entries
// are invalidated on every transaction write and recomputed lazily.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Store is a TTL cache keyed by string.
type Store[T any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[T]
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a Store whose entries expire after ttl.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
	}
}

// Get retrieves a value from the cache. Expired entries are treated as
// absent; they are removed by CleanExpired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry[T]{value: value, expiresAt: time.Now().Add(s.ttl)}
}

// Delete removes a key from the cache.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Size returns the current number of items in the cache, including
// expired entries not yet cleaned.
func (s *Store[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// CleanExpired removes expired entries and returns how many were removed.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cleaned := 0
	for key, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, key)
			cleaned++
		}
	}
	return cleaned
}

// StatsKey composes the cache key for a user's statistics snapshot.
func StatsKey(userID uint) string {
	return fmt.Sprintf("stats_%d", userID)
}
