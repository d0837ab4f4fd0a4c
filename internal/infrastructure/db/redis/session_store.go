package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// sessionKey is the single session slot: at most one session is active at
// a time.
const sessionKey = "session:current"

// SessionStore holds the active session in Redis with a TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. If ttl <= 0 the session never
// expires on its own.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Set replaces any existing session.
func (s *SessionStore) Set(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session set: marshal: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Get returns the active session or domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("session get: unmarshal: %w", err)
	}
	return &session, nil
}

// Clear removes the session. Clearing an absent session is a no-op.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
