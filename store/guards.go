package store

import "time"

// SetCooldown stamps the key with the current instant. The duration is not
// part of the stamp; callers pass it when checking, so the same key can be
// checked against different windows.
func (s *Store) SetCooldown(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldowns[key] = s.now()
}

// IsCooldownActive reports whether less than seconds have elapsed since the
// key was stamped. Unknown keys are never active.
func (s *Store) IsCooldownActive(key string, seconds int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stamp, ok := s.cooldowns[key]
	if !ok {
		return false
	}
	return s.now().Sub(stamp) < time.Duration(seconds)*time.Second
}

// GetCooldownRemaining returns how long the key stays on cooldown against the
// given window, zero when inactive.
func (s *Store) GetCooldownRemaining(key string, seconds int) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stamp, ok := s.cooldowns[key]
	if !ok {
		return 0
	}
	remaining := time.Duration(seconds)*time.Second - s.now().Sub(stamp)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Store) ClearCooldown(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cooldowns, key)
}

// AddRateLimitEntry records one occurrence for the key.
func (s *Store) AddRateLimitEntry(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimits[key] = append(s.rateLimits[key], s.now())
}

// CheckRateLimit prunes entries older than the trailing window and reports
// whether another occurrence is still allowed. Checking records nothing;
// unknown keys are always under the limit.
func (s *Store) CheckRateLimit(key string, max int, windowSeconds int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-time.Duration(windowSeconds) * time.Second)
	entries := s.rateLimits[key]
	kept := entries[:0]
	for _, e := range entries {
		if e.After(cutoff) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(s.rateLimits, key)
	} else {
		s.rateLimits[key] = kept
	}
	return len(kept) < max
}
