package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pr-poehali-dev/vds-server-api/internal/core/ports"
)

// DefaultDebounceWindow is how long input must settle before a lookup fires.
const DefaultDebounceWindow = 500 * time.Millisecond

const availabilityMinLen = 3

// AvailabilityChecker answers "is this identifier taken?" without blocking
// the caller. Rapid successive checks collapse to the most recent one:
// each request carries a monotonically increasing sequence number and a
// result is applied only if no newer request has been issued since.
type AvailabilityChecker struct {
	lookup ports.AvailabilityLookup
	window time.Duration
	log    zerolog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	seq        uint64
	status     ports.AvailabilityStatus
	identifier string
	onSettle   func(identifier string, status ports.AvailabilityStatus)
}

// NewAvailabilityChecker creates a checker with the given debounce window.
// If window <= 0, DefaultDebounceWindow is used.
func NewAvailabilityChecker(lookup ports.AvailabilityLookup, window time.Duration, log zerolog.Logger) *AvailabilityChecker {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &AvailabilityChecker{
		lookup: lookup,
		window: window,
		log:    log,
		status: ports.AvailabilityIdle,
	}
}

// OnSettle registers a callback invoked whenever a check settles (to
// available, taken, or degrades to idle). The callback runs on the timer
// goroutine and must not call back into the checker.
func (c *AvailabilityChecker) OnSettle(fn func(identifier string, status ports.AvailabilityStatus)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSettle = fn
}

// Check schedules an availability lookup for the identifier. Calls within
// the debounce window supersede one another; only the last one fires.
// Identifiers shorter than three characters reset the checker to idle.
func (c *AvailabilityChecker) Check(ctx context.Context, identifier string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len(identifier) < availabilityMinLen {
		c.status = ports.AvailabilityIdle
		c.identifier = ""
		return
	}

	c.status = ports.AvailabilityChecking
	c.identifier = identifier

	seq := c.seq
	c.timer = time.AfterFunc(c.window, func() {
		c.run(ctx, seq, identifier)
	})
}

// Reset cancels any scheduled check and returns the checker to idle. Used
// when entering register mode.
func (c *AvailabilityChecker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.status = ports.AvailabilityIdle
	c.identifier = ""
}

// Status returns the current status and the identifier it applies to.
func (c *AvailabilityChecker) Status() (ports.AvailabilityStatus, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.identifier
}

func (c *AvailabilityChecker) run(ctx context.Context, seq uint64, identifier string) {
	taken, err := c.lookup.IsTaken(ctx, identifier)

	c.mu.Lock()
	if seq != c.seq {
		// A newer check was issued while this one was in flight.
		c.mu.Unlock()
		return
	}

	switch {
	case err != nil:
		// Inconclusive checks never block submission; the store is
		// re-consulted at registration time anyway.
		c.status = ports.AvailabilityIdle
	case taken:
		c.status = ports.AvailabilityTaken
	default:
		c.status = ports.AvailabilityAvailable
	}
	status := c.status
	fn := c.onSettle
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Str("identifier", identifier).Msg("availability lookup failed")
	}
	if fn != nil {
		fn(identifier, status)
	}
}
