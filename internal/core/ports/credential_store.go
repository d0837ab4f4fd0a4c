package ports

import (
	"context"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// CredentialStore defines the persistence contract for confirmed users and
// pending registrations. Implementations must enforce identifier
// uniqueness across the confirmed set (Promote and nothing else moves a
// record from pending to confirmed).
type CredentialStore interface {
	// FindConfirmed returns the confirmed user with the given identifier,
	// or domain.ErrUserNotFound.
	FindConfirmed(ctx context.Context, identifier string) (*domain.User, error)

	// IsConfirmed reports whether the identifier belongs to a confirmed user.
	IsConfirmed(ctx context.Context, identifier string) (bool, error)

	// CreatePending records an unverified registration. The password hash,
	// token and creation time arrive already populated by the caller.
	// Returns domain.ErrIdentifierTaken when the identifier is already
	// confirmed or pending.
	CreatePending(ctx context.Context, reg *domain.PendingRegistration) error

	// FindPendingByToken returns the pending registration holding the
	// token, or domain.ErrPendingNotFound.
	FindPendingByToken(ctx context.Context, token string) (*domain.PendingRegistration, error)

	// FindPendingByIdentifier returns the pending registration for an
	// identifier, or domain.ErrPendingNotFound.
	FindPendingByIdentifier(ctx context.Context, identifier string) (*domain.PendingRegistration, error)

	// Promote atomically moves a pending registration into the confirmed
	// set: the pending record is removed and a confirmed user inserted.
	Promote(ctx context.Context, pendingID string, user *domain.User) error

	// DeletePending removes a pending registration, used when its token
	// has expired.
	DeletePending(ctx context.Context, pendingID string) error
}
