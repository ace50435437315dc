package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimiterUnavailable wraps Redis failures so callers can fail closed.
var ErrLimiterUnavailable = errors.New("login limiter unavailable")

// RedisLimiter is a LoginLimiter shared by every server replica.
// Failures are fixed-window counters; a separate key marks the block.
type RedisLimiter struct {
	redis  redis.UniversalClient
	policy LimiterPolicy
	prefix string
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
func NewRedisLimiter(client redis.UniversalClient, policy LimiterPolicy) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		policy: policy,
		prefix: "allmanager:login:",
	}
}

func (l *RedisLimiter) failKey(key string) string  { return l.prefix + "fail:" + key }
func (l *RedisLimiter) blockKey(key string) string { return l.prefix + "block:" + key }

func (l *RedisLimiter) Check(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.redis.PTTL(ctx, l.blockKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	// -2: no key, -1: no expiry (never set by us)
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

// countFailure increments the window counter and gives it the window TTL in
// one step. A counter found without a TTL gets one too.
var countFailure = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	count, err := countFailure.Run(ctx, l.redis, []string{l.failKey(key)}, l.policy.Window.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	if count >= int64(l.policy.MaxAttempts) {
		pipe := l.redis.TxPipeline()
		pipe.Set(ctx, l.blockKey(key), count, l.policy.Block)
		pipe.Del(ctx, l.failKey(key))
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}

	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.failKey(key), l.blockKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}
