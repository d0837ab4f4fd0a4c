package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// guardTTL outlives the 24h verification window, so a replayed token keeps
// failing even after the pending record is gone.
const guardTTL = 25 * time.Hour

// TokenGuard enforces one-shot use of verification tokens via SetNX.
// Key format: verify:once:<token>
type TokenGuard struct {
	client *redis.Client
}

// NewTokenGuard creates a TokenGuard wrapping the given Redis client.
func NewTokenGuard(client *redis.Client) *TokenGuard {
	return &TokenGuard{client: client}
}

// Once returns true exactly the first time it is called for a token.
func (g *TokenGuard) Once(ctx context.Context, token string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(token), "1", guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("token guard: %w", err)
	}
	return ok, nil
}

func (g *TokenGuard) key(token string) string {
	return "verify:once:" + token
}
