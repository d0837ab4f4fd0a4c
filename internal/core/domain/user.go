package domain

import "time"

// User models a confirmed account: an identity whose email ownership has
// been verified and which may authenticate.
type User struct {
	ID           string    `json:"id"`
	Identifier   string    `json:"identifier"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingRegistration is an account awaiting email verification. It is
// created on registration and removed either when verification succeeds
// (promoted to User) or when its token turns out to be expired on a
// confirmation attempt.
type PendingRegistration struct {
	ID                string    `json:"id"`
	Identifier        string    `json:"identifier"`
	DisplayName       string    `json:"display_name"`
	PasswordHash      string    `json:"-"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// VerificationTTL is how long a pending registration stays promotable.
const VerificationTTL = 24 * time.Hour

// Expired reports whether the registration's verification window has closed.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.Sub(p.CreatedAt) > VerificationTTL
}

// Session is the single active authenticated identity. It carries no
// password material.
type Session struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
