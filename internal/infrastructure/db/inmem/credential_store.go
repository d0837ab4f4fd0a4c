// Package inmem provides in-memory store backends. They honour the same
// contracts as the Mongo and Redis implementations and back the tests.
package inmem

import (
	"context"
	"sync"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// CredentialStore is a map-backed ports.CredentialStore.
type CredentialStore struct {
	mu        sync.Mutex
	confirmed map[string]*domain.User                // identifier → user
	pending   map[string]*domain.PendingRegistration // id → registration
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		confirmed: make(map[string]*domain.User),
		pending:   make(map[string]*domain.PendingRegistration),
	}
}

func (s *CredentialStore) FindConfirmed(_ context.Context, identifier string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.confirmed[identifier]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *CredentialStore) IsConfirmed(_ context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.confirmed[identifier]
	return ok, nil
}

func (s *CredentialStore) CreatePending(_ context.Context, reg *domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.confirmed[reg.Identifier]; ok {
		return domain.ErrIdentifierTaken
	}
	for _, p := range s.pending {
		if p.Identifier == reg.Identifier {
			return domain.ErrIdentifierTaken
		}
	}

	clone := *reg
	s.pending[reg.ID] = &clone
	return nil
}

func (s *CredentialStore) FindPendingByToken(_ context.Context, token string) (*domain.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		if p.VerificationToken == token {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPendingNotFound
}

func (s *CredentialStore) FindPendingByIdentifier(_ context.Context, identifier string) (*domain.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		if p.Identifier == identifier {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPendingNotFound
}

// Promote mirrors the Mongo store's insert-before-delete ordering: the
// confirmed write commits first, a second promotion of the same identifier
// fails as ErrInvalidToken, and the pending record is only removed after.
func (s *CredentialStore) Promote(_ context.Context, pendingID string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[pendingID]; !ok {
		return domain.ErrInvalidToken
	}
	if _, ok := s.confirmed[user.Identifier]; ok {
		return domain.ErrInvalidToken
	}

	clone := *user
	s.confirmed[user.Identifier] = &clone
	delete(s.pending, pendingID)
	return nil
}

func (s *CredentialStore) DeletePending(_ context.Context, pendingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, pendingID)
	return nil
}

// PendingCount reports how many registrations are awaiting verification.
func (s *CredentialStore) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ConfirmedCount reports the size of the confirmed set.
func (s *CredentialStore) ConfirmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.confirmed)
}
