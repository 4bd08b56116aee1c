package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps timestamps in process memory. Sessions are independent;
// each holds its own mutex so one busy session never serializes others.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionEntry)}
}

func (s *MemoryStore) entry(sessionID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *MemoryStore) Admit(_ context.Context, sessionID string, now time.Time, window time.Duration, max int) (bool, int, time.Time, error) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.evict(now, window)

	if len(e.timestamps) < max {
		e.timestamps = append(e.timestamps, now)
		return true, len(e.timestamps), e.oldest(), nil
	}
	return false, len(e.timestamps), e.oldest(), nil
}

func (s *MemoryStore) Peek(_ context.Context, sessionID string, now time.Time, window time.Duration) (int, time.Time, error) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	// Peek must not mutate observable state; eviction only drops entries
	// that are already logically expired.
	e.evict(now, window)
	return len(e.timestamps), e.oldest(), nil
}

func (e *sessionEntry) evict(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	live := e.timestamps[:0]
	for _, ts := range e.timestamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	e.timestamps = live
}

func (e *sessionEntry) oldest() time.Time {
	if len(e.timestamps) == 0 {
		return time.Time{}
	}
	return e.timestamps[0]
}
