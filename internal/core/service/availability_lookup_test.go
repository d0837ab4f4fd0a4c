package service

import (
	"context"
	"testing"
	"time"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/inmem"
)

func TestStoreLookup(t *testing.T) {
	store := inmem.NewCredentialStore()
	lookup := NewStoreLookup(store)

	taken, err := lookup.IsTaken(context.Background(), "free")
	if err != nil || taken {
		t.Fatalf("fresh identifier: taken=%v err=%v", taken, err)
	}

	if err := store.CreatePending(context.Background(), &domain.PendingRegistration{
		ID: "p1", Identifier: "pending_user", VerificationToken: "tok", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed pending: %v", err)
	}
	if taken, _ := lookup.IsTaken(context.Background(), "pending_user"); !taken {
		t.Fatal("pending identifiers count as taken")
	}

	if err := store.Promote(context.Background(), "p1", &domain.User{Identifier: "pending_user"}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if taken, _ := lookup.IsTaken(context.Background(), "pending_user"); !taken {
		t.Fatal("confirmed identifiers count as taken")
	}
}
