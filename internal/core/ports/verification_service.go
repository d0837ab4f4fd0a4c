package ports

import "context"

// VerificationService issues and confirms email verification tokens.
type VerificationService interface {
	// Issue generates a fresh token for the identifier's pending
	// registration and dispatches the verification mail. Returns the raw
	// token.
	Issue(ctx context.Context, identifier, displayName string) (string, error)

	// Confirm validates a token for an identifier and promotes the
	// pending registration. A token is usable at most once: repeated
	// confirmation fails with domain.ErrInvalidToken. Expired tokens
	// return domain.ErrTokenExpired and purge the pending record.
	Confirm(ctx context.Context, token, identifier string) error
}

// MailSender dispatches verification and reset mail. Implementations must
// not block the caller beyond enqueueing.
type MailSender interface {
	SendVerification(ctx context.Context, to, displayName, token string) error
	SendPasswordReset(ctx context.Context, to string) error
}
