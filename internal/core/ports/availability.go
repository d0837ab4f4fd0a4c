package ports

import "context"

// AvailabilityStatus is the settled state of a username availability check.
type AvailabilityStatus string

const (
	AvailabilityIdle      AvailabilityStatus = "idle"
	AvailabilityChecking  AvailabilityStatus = "checking"
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityTaken     AvailabilityStatus = "taken"
)

// AvailabilityLookup answers whether an identifier is already registered.
// Implementations consult the authoritative store (confirmed + pending).
type AvailabilityLookup interface {
	IsTaken(ctx context.Context, identifier string) (bool, error)
}
