package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"strategist-pipeline/internal/models"
)

// SessionState is what a calendar run resumes from: the sanitized brand
// input and the strategy set produced by the strategy phase. It is written
// once per completed strategy phase and replaced wholesale on re-runs.
type SessionState struct {
	Input      models.BrandInput  `json:"input"`
	Strategies models.StrategySet `json:"strategies"`
	SavedAt    time.Time          `json:"savedAt"`
}

// SessionStore persists SessionState between the two phases. Load returns
// (nil, nil) when the session has no completed strategy phase.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, state *SessionState) error
	Load(ctx context.Context, sessionID string) (*SessionState, error)
}

// MemorySessionStore keeps state in-process. Entries expire after ttl,
// checked lazily on Load.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memorySessionEntry
	ttl     time.Duration
	now     func() time.Time
}

type memorySessionEntry struct {
	state   *SessionState
	savedAt time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memorySessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, state *SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memorySessionEntry{state: state, savedAt: s.now()}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (*SessionState, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().Sub(entry.savedAt) > s.ttl {
		s.mu.Lock()
		delete(s.entries, sessionID)
		s.mu.Unlock()
		return nil, nil
	}
	return entry.state, nil
}

// RedisSessionStore persists state as JSON with a TTL, so a restart between
// the two phases does not force the user to regenerate strategies.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, state *SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	return s.client.Set(ctx, sessionKey(sessionID), payload, s.ttl).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state SessionState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, nil
}
