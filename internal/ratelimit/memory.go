package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a process-local Store used when no shared counter store is
// configured, and by tests. Counters expire lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

// WithClock overrides the time source for tests.
func (s *MemoryStore) WithClock(fn func() time.Time) *MemoryStore {
	if fn != nil {
		s.now = fn
	}
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.After(e.expiresAt) {
		e = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++

	// Drop stale windows so the map does not grow unbounded.
	if len(s.entries) > 4096 {
		for k, v := range s.entries {
			if now.After(v.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	return e.count, nil
}
