package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process CounterStore. It is suitable for tests and
// single-shot CLI invocations only: counters do not survive a restart, which
// the durable Postgres store exists to guarantee.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]int)}
}

func bucketKey(scope string, kind Kind, bucketStart time.Time) string {
	return fmt.Sprintf("%s|%s|%d", scope, kind, bucketStart.Unix())
}

// Count returns the current count for the bucket.
func (s *MemoryStore) Count(_ context.Context, scope string, kind Kind, bucketStart time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[bucketKey(scope, kind, bucketStart)], nil
}

// Increment adds one to the bucket counter unless it is already at limit.
func (s *MemoryStore) Increment(_ context.Context, scope string, kind Kind, bucketStart time.Time, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bucketKey(scope, kind, bucketStart)
	if s.counters[key] >= limit {
		return false, nil
	}
	s.counters[key]++
	return true, nil
}

// Decrement subtracts one from the bucket counter, never below zero.
func (s *MemoryStore) Decrement(_ context.Context, scope string, kind Kind, bucketStart time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bucketKey(scope, kind, bucketStart)
	if s.counters[key] > 0 {
		s.counters[key]--
	}
	return nil
}
