// Package localstore implements cart.LocalStorage backends.
package localstore

import (
	"context"
	"sync"
	"time"

	cartdom "storefront/internal/domain/cart"
)

// MemoryStore is a process-local key-value store. With a TTL it behaves like
// RedisStore: each Set refreshes the entry, idle entries expire and are swept.
type MemoryStore struct {
	mu        sync.Mutex
	data      map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero = no expiry
}

var _ cartdom.LocalStorage = (*MemoryStore)(nil)

// NewMemoryStore never expires entries (tests, single-shot tools).
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreTTL(0)
}

// NewMemoryStoreTTL expires entries ttl after their last Set.
func NewMemoryStoreTTL(ttl time.Duration) *MemoryStore {
	return &MemoryStore{data: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	if s.expired(e, s.now()) {
		delete(s.data, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := memoryEntry{value: value}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	s.data[key] = e
	s.sweepLocked(now)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len counts live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, e := range s.data {
		if !s.expired(e, now) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// sweepLocked drops expired entries at most once per ttl.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for k, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, k)
		}
	}
}
