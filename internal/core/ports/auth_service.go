package ports

import (
	"context"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// RegisterInput carries a validated registration submission.
type RegisterInput struct {
	Identifier  string
	DisplayName string
	Password    string
}

// RegisterResult reports the outcome of a registration: the pending record
// was created and a verification mail dispatched.
type RegisterResult struct {
	Identifier        string
	VerificationToken string
}

// AuthService implements the authentication workflow operations.
type AuthService interface {
	// Register creates a pending registration and triggers the
	// verification flow. Fails with domain.ErrIdentifierTaken when the
	// identifier is already in use.
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)

	// Login verifies credentials against the confirmed set. Returns a
	// signed session token and the session on success;
	// domain.ErrInvalidCredentials on mismatch, domain.ErrEmailNotConfirmed
	// when the identifier is still pending verification.
	Login(ctx context.Context, identifier, password string) (string, *domain.Session, error)

	// Logout destroys the active session.
	Logout(ctx context.Context) error

	// RequestPasswordReset triggers the (out-of-scope) reset notification.
	// It never reveals whether the identifier exists.
	RequestPasswordReset(ctx context.Context, identifier string) error
}
