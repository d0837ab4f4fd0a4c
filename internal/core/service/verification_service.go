package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// TokenGuard abstracts the one-shot token store (Redis). Once returns true
// exactly the first time it is called for a token.
type TokenGuard interface {
	Once(ctx context.Context, token string) (bool, error)
}

type verificationService struct {
	store ports.CredentialStore
	guard TokenGuard
	mail  ports.MailSender
	log   zerolog.Logger
}

// NewVerificationService returns a VerificationService implementation.
func NewVerificationService(
	store ports.CredentialStore,
	guard TokenGuard,
	mail ports.MailSender,
	log zerolog.Logger,
) ports.VerificationService {
	return &verificationService{store: store, guard: guard, mail: mail, log: log}
}

// Issue re-sends the verification mail for an existing pending
// registration and returns its token. Registration itself mints the token;
// this path only covers "send it again".
func (s *verificationService) Issue(ctx context.Context, identifier, displayName string) (string, error) {
	reg, err := s.store.FindPendingByIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}

	if reg.Expired(time.Now().UTC()) {
		if delErr := s.store.DeletePending(ctx, reg.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("identifier", identifier).Msg("failed to purge expired registration")
		}
		return "", domain.ErrTokenExpired
	}

	name := displayName
	if name == "" {
		name = reg.DisplayName
	}
	if err := s.mail.SendVerification(ctx, reg.Identifier, name, reg.VerificationToken); err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("verification mail dispatch failed")
	}

	return reg.VerificationToken, nil
}

// Confirm promotes a pending registration. Confirmation is effectful at
// most once: the pending record is removed atomically with the insert, and
// the guard rejects a token replayed while the promotion is in flight.
// Expired registrations are purged as a side effect of the attempt.
func (s *verificationService) Confirm(ctx context.Context, token, identifier string) error {
	reg, err := s.store.FindPendingByToken(ctx, token)
	if errors.Is(err, domain.ErrPendingNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}

	if reg.Identifier != identifier {
		return domain.ErrInvalidToken
	}

	now := time.Now().UTC()
	if reg.Expired(now) {
		if delErr := s.store.DeletePending(ctx, reg.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("identifier", identifier).Msg("failed to purge expired registration")
		}
		return domain.ErrTokenExpired
	}

	first, err := s.guard.Once(ctx, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("token guard unavailable, relying on store atomicity")
	} else if !first {
		return domain.ErrInvalidToken
	}

	user := &domain.User{
		Identifier:   reg.Identifier,
		DisplayName:  reg.DisplayName,
		PasswordHash: reg.PasswordHash,
		ConfirmedAt:  now,
		CreatedAt:    reg.CreatedAt,
	}

	if err := s.store.Promote(ctx, reg.ID, user); err != nil {
		return fmt.Errorf("confirm: promote: %w", err)
	}

	s.log.Info().Str("identifier", reg.Identifier).Msg("registration confirmed")
	return nil
}
