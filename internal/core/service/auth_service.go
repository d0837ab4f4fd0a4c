package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// AuthService implements registration, login, logout and password reset
// requests on top of the credential and session stores.
type AuthService struct {
	store     ports.CredentialStore
	sessions  ports.SessionStore
	mail      ports.MailSender
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	store ports.CredentialStore,
	sessions ports.SessionStore,
	mail ports.MailSender,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		sessions:  sessions,
		mail:      mail,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a pending registration with a server-generated
// verification token and dispatches the verification mail. The password is
// stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	if in.Identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	confirmed, err := s.store.IsConfirmed(ctx, in.Identifier)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if confirmed {
		return nil, domain.ErrIdentifierTaken
	}
	if _, err := s.store.FindPendingByIdentifier(ctx, in.Identifier); err == nil {
		return nil, domain.ErrIdentifierTaken
	} else if !errors.Is(err, domain.ErrPendingNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	reg := &domain.PendingRegistration{
		ID:                uuid.NewString(),
		Identifier:        in.Identifier,
		DisplayName:       in.DisplayName,
		PasswordHash:      string(hash),
		VerificationToken: token,
		CreatedAt:         time.Now().UTC(),
	}

	// The store's uniqueness guarantee is the authoritative check; the
	// lookups above only give friendlier errors for the common path.
	if err := s.store.CreatePending(ctx, reg); err != nil {
		return nil, err
	}

	if err := s.mail.SendVerification(ctx, reg.Identifier, reg.DisplayName, token); err != nil {
		s.log.Warn().Err(err).Str("identifier", reg.Identifier).Msg("verification mail dispatch failed")
	}

	s.log.Info().Str("identifier", reg.Identifier).Msg("pending registration created")
	return &ports.RegisterResult{Identifier: reg.Identifier, VerificationToken: token}, nil
}

// Login verifies credentials against the confirmed set, establishes the
// session and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *domain.Session, error) {
	if identifier == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindConfirmed(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		// A pending record means the account exists but the mail was
		// never confirmed; everything else is a credentials failure.
		if _, pendErr := s.store.FindPendingByIdentifier(ctx, identifier); pendErr == nil {
			return "", nil, domain.ErrEmailNotConfirmed
		}
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		Identifier:  user.Identifier,
		DisplayName: user.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return "", nil, fmt.Errorf("login: set session: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("identifier", user.Identifier).Msg("login succeeded")
	return token, session, nil
}

// Logout destroys the active session. Clearing an absent session is not an
// error.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// RequestPasswordReset dispatches a reset mail when the identifier belongs
// to a confirmed user. The result is uniform regardless of existence so
// the endpoint cannot be used for account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, identifier string) error {
	confirmed, err := s.store.IsConfirmed(ctx, identifier)
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("reset lookup failed")
		return nil
	}
	if !confirmed {
		s.log.Debug().Str("identifier", identifier).Msg("reset requested for unknown identifier")
		return nil
	}
	if err := s.mail.SendPasswordReset(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("reset mail dispatch failed")
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"identifier":   user.Identifier,
		"display_name": user.DisplayName,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateVerificationToken returns a 128-bit random token in hex. Tokens
// are generated server-side only.
func generateVerificationToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
