package store

import (
	"github.com/castflow/castflow/model"
)

// AddEvent appends to the bounded event ring, evicting the oldest entry once
// the capacity is reached.
func (s *Store) AddEvent(evt model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	if len(s.events) > s.eventCap {
		s.events = s.events[len(s.events)-s.eventCap:]
	}
}

// GetEventHistory returns up to limit recent events, newest first. A limit
// of zero or less returns everything retained. The engine normalizes legacy
// aliases before appending, so entries carry canonical event types.
func (s *Store) GetEventHistory(limit int) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}

// GetLastEvent returns the most recent event of the given type, nil when the
// ring holds none. Ring entries use canonical event types, so lookups must
// too: "tiktok:gift" finds an event ingested under the short alias "gift",
// the alias itself finds nothing.
func (s *Store) GetLastEvent(eventType string) *model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Type == eventType {
			evt := s.events[i]
			return &evt
		}
	}
	return nil
}

func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
