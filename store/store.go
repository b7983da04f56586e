package store

import (
	"sync"
	"time"

	"github.com/castflow/castflow/model"
)

// Store holds all mutable runtime data shared between flows: named variables,
// counters, cooldown stamps, rate limit windows, the hierarchical state tree
// and a bounded ring of recent events. Flows run concurrently, so every
// operation is guarded; callers never see partial updates.
type Store struct {
	mu         sync.RWMutex
	variables  map[string]any
	counters   map[string]int64
	cooldowns  map[string]time.Time
	rateLimits map[string][]time.Time
	state      map[string]any
	events     []model.Event
	eventCap   int
	now        func() time.Time
}

func NewStore(eventCapacity int) *Store {
	if eventCapacity <= 0 {
		eventCapacity = 500
	}
	return &Store{
		variables:  make(map[string]any),
		counters:   make(map[string]int64),
		cooldowns:  make(map[string]time.Time),
		rateLimits: make(map[string][]time.Time),
		state:      make(map[string]any),
		eventCap:   eventCapacity,
		now:        time.Now,
	}
}

// SetNowFunc replaces the clock. Cooldown and rate limit tests use it to
// advance simulated time.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variables[key] = value
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variables[key]
	return v, ok
}

func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.variables[key]
	return ok
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.variables, key)
}

// Clear drops all variables. Counters, cooldowns and state survive.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variables = make(map[string]any)
}

// Variables returns a shallow copy for template rendering and scripts.
func (s *Store) Variables() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.variables))
	for k, v := range s.variables {
		out[k] = v
	}
	return out
}

func (s *Store) Increment(key string, delta int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += delta
	return s.counters[key]
}

func (s *Store) Decrement(key string, delta int64) int64 {
	return s.Increment(key, -delta)
}

func (s *Store) GetCounter(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

func (s *Store) ResetCounter(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
}
