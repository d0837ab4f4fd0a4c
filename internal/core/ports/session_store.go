package ports

import (
	"context"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

// SessionStore holds the single active session. Set replaces any existing
// session; Get returns domain.ErrSessionNotFound when none is active.
type SessionStore interface {
	Set(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context) (*domain.Session, error)
	Clear(ctx context.Context) error
}
