package sequence

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type counterKey struct {
	clinicID uuid.UUID
	entity   string
	year     int
}

// MemStore is an in-memory CounterStore for unit tests and local wiring.
// A single mutex covers the map, so Increment has the same atomicity as the
// Postgres upsert.
type MemStore struct {
	mu       sync.Mutex
	counters map[counterKey]int64
}

// NewMemStore creates an empty in-memory counter store.
func NewMemStore() *MemStore {
	return &MemStore{counters: make(map[counterKey]int64)}
}

func (s *MemStore) Increment(_ context.Context, clinicID uuid.UUID, entity string, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := counterKey{clinicID: clinicID, entity: entity, year: year}
	s.counters[key]++
	return s.counters[key], nil
}

// Value returns the current counter value without advancing it. Test helper.
func (s *MemStore) Value(clinicID uuid.UUID, entity string, year int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[counterKey{clinicID: clinicID, entity: entity, year: year}]
}

// Set force-sets a counter value. Test helper for overflow scenarios.
func (s *MemStore) Set(clinicID uuid.UUID, entity string, year int, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[counterKey{clinicID: clinicID, entity: entity, year: year}] = value
}

var _ CounterStore = (*MemStore)(nil)
