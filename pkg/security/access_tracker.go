package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AccessTrackerConfig holds configuration for failed operator auth tracking
type AccessTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before a block (default: 5)
	AttemptWindow time.Duration // Window the attempts are counted in (default: 15min)
	BlockDuration time.Duration // How long a block lasts (default: 15min)
}

// DefaultAccessTrackerConfig returns sensible defaults
func DefaultAccessTrackerConfig() AccessTrackerConfig {
	return AccessTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// AccessTracker counts rejected operator requests per IP and blocks an IP
// that keeps failing. A nil Redis client disables tracking.
type AccessTracker struct {
	client *goredis.Client
	config AccessTrackerConfig
	logger *SecurityLogger
}

func NewAccessTracker(client *goredis.Client, config AccessTrackerConfig) *AccessTracker {
	return &AccessTracker{
		client: client,
		config: config,
		logger: DefaultLogger(),
	}
}

// Redis key patterns
const (
	failAdminIPPrefix    = "fail:admin:ip:"
	blockedAdminIPPrefix = "blocked:admin:ip:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked reports whether ip is currently blocked
func (at *AccessTracker) IsBlocked(ctx context.Context, ip string) (bool, error) {
	if at.client == nil || ip == "" {
		return false, nil
	}

	exists, err := at.client.Exists(ctx, blockedAdminIPPrefix+ip).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check IP block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailure counts one rejected request and blocks ip once it reaches
// MaxAttempts. Returns (blocked, attempts, error).
func (at *AccessTracker) RecordFailure(ctx context.Context, ip, requestID string) (bool, int, error) {
	if at.client == nil || ip == "" {
		return false, 0, nil
	}

	ttlSeconds := int(at.config.AttemptWindow.Seconds())
	result, err := at.client.Eval(ctx, incrWithTTLScript, []string{failAdminIPPrefix + ip}, ttlSeconds).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, 0, errors.New("unexpected result type from Lua script")
	}

	if int(count) < at.config.MaxAttempts {
		return false, int(count), nil
	}

	if err := at.client.Set(ctx, blockedAdminIPPrefix+ip, "1", at.config.BlockDuration).Err(); err != nil {
		return false, int(count), fmt.Errorf("failed to set IP block: %w", err)
	}
	at.logger.LogAccessBlocked(ctx, ip, requestID, int(count), at.config.BlockDuration)
	return true, int(count), nil
}

// Clear forgets the failures for ip after a successful request
func (at *AccessTracker) Clear(ctx context.Context, ip string) {
	if at.client == nil || ip == "" {
		return
	}
	if err := at.client.Del(ctx, failAdminIPPrefix+ip).Err(); err != nil {
		at.logger.zapLogger.Warn("failed to clear admin attempts", zap.Error(err))
	}
}
