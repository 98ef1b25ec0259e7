package cache

import (
	"context"
	"fmt"
	"time"

	"signup-funnel-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultGuardPrefix namespaces dedupe keys.
const DefaultGuardPrefix = "signup:dedupe:"

type submissionGuard struct {
	client *goredis.Client
	prefix string
	window time.Duration
}

// NewSubmissionGuard claims keys with SET NX so a key is accepted once per window.
// A non-positive window disables deduplication.
func NewSubmissionGuard(client *goredis.Client, prefix string, window time.Duration) domain.SubmissionGuard {
	if window <= 0 {
		return NoopGuard{}
	}
	if prefix == "" {
		prefix = DefaultGuardPrefix
	}
	return &submissionGuard{client: client, prefix: prefix, window: window}
}

func (g *submissionGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, 1, g.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis dedupe claim failed: %w", err)
	}
	return ok, nil
}

func (g *submissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis dedupe release failed: %w", err)
	}
	return nil
}

// NoopGuard accepts everything. Used when Redis is not configured.
type NoopGuard struct{}

func (NoopGuard) Claim(context.Context, string) (bool, error) { return true, nil }

func (NoopGuard) Release(context.Context, string) error { return nil }
