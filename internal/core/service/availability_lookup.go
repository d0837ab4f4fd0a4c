package service

import (
	"context"
	"errors"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// storeLookup answers availability against the authoritative credential
// store: an identifier is taken if it is confirmed or pending.
type storeLookup struct {
	store ports.CredentialStore
}

// NewStoreLookup adapts a CredentialStore into an AvailabilityLookup.
func NewStoreLookup(store ports.CredentialStore) ports.AvailabilityLookup {
	return &storeLookup{store: store}
}

func (l *storeLookup) IsTaken(ctx context.Context, identifier string) (bool, error) {
	confirmed, err := l.store.IsConfirmed(ctx, identifier)
	if err != nil {
		return false, err
	}
	if confirmed {
		return true, nil
	}

	_, err = l.store.FindPendingByIdentifier(ctx, identifier)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrPendingNotFound) {
		return false, nil
	}
	return false, err
}
