package metering

import (
	"context"
	"sync"
	"time"

	"github.com/lumigen/lumigen/pkg/plan"
)

// record holds one counter. Each record carries its own mutex so counters
// for different keys never contend.
type record struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
}

// MemoryStore implements Store with process-local state. Counters do not
// survive a restart and are not shared between instances, so it is meant for
// tests and single-process development; production uses the Redis or
// Postgres store.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[Key]*record
}

// NewMemoryStore returns an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[Key]*record)}
}

// get returns the record for key, creating it with a zero count if absent.
func (s *MemoryStore) get(key Key, now time.Time) *record {
	s.mu.RLock()
	r, ok := s.recs[key]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok = s.recs[key]; ok {
		return r
	}
	r = &record{lastReset: now}
	s.recs[key] = r
	return r
}

// Consume implements Store.
func (s *MemoryStore) Consume(ctx context.Context, key Key, quota plan.Quota, period plan.Period, now time.Time) (Usage, bool, error) {
	r := s.get(key, now)

	r.mu.Lock()
	defer r.mu.Unlock()

	if CrossedBoundary(period, r.lastReset, now) {
		r.count = 0
		r.lastReset = now
	}

	if !quota.IsUnbounded() && r.count >= quota.Limit() {
		return Usage{Count: r.count, LastReset: r.lastReset}, false, nil
	}

	r.count++
	return Usage{Count: r.count, LastReset: r.lastReset}, true, nil
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(ctx context.Context, key Key) (Usage, bool, error) {
	s.mu.RLock()
	r, ok := s.recs[key]
	s.mu.RUnlock()
	if !ok {
		return Usage{}, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return Usage{Count: r.count, LastReset: r.lastReset}, true, nil
}
