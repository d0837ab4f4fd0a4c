package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/domain"
)

const (
	confirmedCollection = "confirmed_users"
	pendingCollection   = "pending_registrations"
)

// CredentialStore persists confirmed users and pending registrations in
// two collections. A unique index on identifier in each collection gives
// per-identifier mutual exclusion at registration time.
type CredentialStore struct {
	confirmed *mongo.Collection
	pending   *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{
		confirmed: db.Collection(confirmedCollection),
		pending:   db.Collection(pendingCollection),
	}
}

// EnsureIndexes creates the unique identifier indexes. Call once at startup.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "identifier", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.confirmed.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("confirmed index: %w", err)
	}
	if _, err := s.pending.Indexes().CreateOne(ctx, unique); err != nil {
		return fmt.Errorf("pending index: %w", err)
	}
	token := mongo.IndexModel{
		Keys:    bson.D{{Key: "verification_token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.pending.Indexes().CreateOne(ctx, token); err != nil {
		return fmt.Errorf("token index: %w", err)
	}
	return nil
}

type confirmedDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Identifier   string             `bson:"identifier"`
	DisplayName  string             `bson:"display_name"`
	PasswordHash string             `bson:"password_hash"`
	ConfirmedAt  int64              `bson:"confirmed_at"`
	CreatedAt    int64              `bson:"created_at"`
}

type pendingDoc struct {
	ID                string `bson:"_id"`
	Identifier        string `bson:"identifier"`
	DisplayName       string `bson:"display_name"`
	PasswordHash      string `bson:"password_hash"`
	VerificationToken string `bson:"verification_token"`
	CreatedAt         int64  `bson:"created_at"`
}

func (s *CredentialStore) FindConfirmed(ctx context.Context, identifier string) (*domain.User, error) {
	var doc confirmedDoc
	if err := s.confirmed.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find confirmed: %w", err)
	}

	return &domain.User{
		ID:           doc.ID.Hex(),
		Identifier:   doc.Identifier,
		DisplayName:  doc.DisplayName,
		PasswordHash: doc.PasswordHash,
		ConfirmedAt:  unixToTime(doc.ConfirmedAt),
		CreatedAt:    unixToTime(doc.CreatedAt),
	}, nil
}

func (s *CredentialStore) IsConfirmed(ctx context.Context, identifier string) (bool, error) {
	n, err := s.confirmed.CountDocuments(ctx, bson.M{"identifier": identifier})
	if err != nil {
		return false, fmt.Errorf("count confirmed: %w", err)
	}
	return n > 0, nil
}

func (s *CredentialStore) CreatePending(ctx context.Context, reg *domain.PendingRegistration) error {
	doc := pendingDoc{
		ID:                reg.ID,
		Identifier:        reg.Identifier,
		DisplayName:       reg.DisplayName,
		PasswordHash:      reg.PasswordHash,
		VerificationToken: reg.VerificationToken,
		CreatedAt:         reg.CreatedAt.Unix(),
	}

	if _, err := s.pending.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrIdentifierTaken
		}
		return fmt.Errorf("insert pending: %w", err)
	}
	return nil
}

func (s *CredentialStore) FindPendingByToken(ctx context.Context, token string) (*domain.PendingRegistration, error) {
	return s.findPending(ctx, bson.M{"verification_token": token})
}

func (s *CredentialStore) FindPendingByIdentifier(ctx context.Context, identifier string) (*domain.PendingRegistration, error) {
	return s.findPending(ctx, bson.M{"identifier": identifier})
}

func (s *CredentialStore) findPending(ctx context.Context, filter bson.M) (*domain.PendingRegistration, error) {
	var doc pendingDoc
	if err := s.pending.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPendingNotFound
		}
		return nil, fmt.Errorf("find pending: %w", err)
	}

	return &domain.PendingRegistration{
		ID:                doc.ID,
		Identifier:        doc.Identifier,
		DisplayName:       doc.DisplayName,
		PasswordHash:      doc.PasswordHash,
		VerificationToken: doc.VerificationToken,
		CreatedAt:         unixToTime(doc.CreatedAt),
	}, nil
}

// Promote moves a pending registration into the confirmed set. The insert
// comes first so that a failure can never lose the pending record; the
// unique identifier index turns a second promotion into ErrInvalidToken.
// A failed cleanup delete leaves only a harmless stale pending row.
func (s *CredentialStore) Promote(ctx context.Context, pendingID string, user *domain.User) error {
	doc := confirmedDoc{
		Identifier:   user.Identifier,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
		ConfirmedAt:  user.ConfirmedAt.Unix(),
		CreatedAt:    user.CreatedAt.Unix(),
	}
	if _, err := s.confirmed.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("promote: insert confirmed: %w", err)
	}

	if _, err := s.pending.DeleteOne(ctx, bson.M{"_id": pendingID}); err != nil {
		return fmt.Errorf("promote: delete pending: %w", err)
	}
	return nil
}

func (s *CredentialStore) DeletePending(ctx context.Context, pendingID string) error {
	if _, err := s.pending.DeleteOne(ctx, bson.M{"_id": pendingID}); err != nil {
		return fmt.Errorf("delete pending: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
