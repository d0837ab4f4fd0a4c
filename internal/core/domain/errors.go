package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrIdentifierTaken    = errors.New("identifier already taken")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("invalid or already used verification token")
	ErrTokenExpired       = errors.New("verification token expired")
	ErrPendingNotFound    = errors.New("pending registration not found")
	ErrSessionNotFound    = errors.New("no active session")
	ErrInvalidTransition  = errors.New("invalid mode transition")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrInvalidOrder       = errors.New("invalid order")
)
