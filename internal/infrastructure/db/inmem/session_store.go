package inmem

import (
	"context"
	"sync"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// SessionStore holds the single active session in memory.
type SessionStore struct {
	mu      sync.Mutex
	current *domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Set(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *session
	s.current = &clone
	return nil
}

func (s *SessionStore) Get(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s.current
	return &clone, nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	return nil
}

// TokenGuard is a map-backed one-shot token guard.
type TokenGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewTokenGuard() *TokenGuard {
	return &TokenGuard{seen: make(map[string]struct{})}
}

func (g *TokenGuard) Once(_ context.Context, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[token]; ok {
		return false, nil
	}
	g.seen[token] = struct{}{}
	return true, nil
}
