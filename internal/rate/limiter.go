package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds renewal limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// Limiter caps how often a session may be renewed using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
	config Config
}

// New creates a [Limiter] backed by the given Redis client. Keys are
// "prefix:rn:<session key>".
func New(redisClient redis.UniversalClient, prefix string, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
		config: cfg,
	}
}

// Enabled reports whether attempts are limited at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.MaxAttempts > 0 && l.config.Cooldown > 0
}

// CheckRenew records one renewal attempt. Once the window budget is spent
// it returns a *LimitError matching ErrRateLimited.
func (l *Limiter) CheckRenew(ctx context.Context, sessionKey string) error {
	if !l.Enabled() {
		return nil
	}

	count, ttl, err := l.hit(ctx, l.renewKey(sessionKey))
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxAttempts) {
		return &LimitError{RetryAfter: ttl}
	}
	return nil
}

// RenewAttempts returns the attempts recorded in the current window.
func (l *Limiter) RenewAttempts(ctx context.Context, sessionKey string) (int, error) {
	count, err := l.redis.Get(ctx, l.renewKey(sessionKey)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

// ResetRenew clears the window, for example after an explicit login.
func (l *Limiter) ResetRenew(ctx context.Context, sessionKey string) error {
	if err := l.redis.Del(ctx, l.renewKey(sessionKey)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) renewKey(sessionKey string) string {
	return l.prefix + ":rn:" + sessionKey
}

// windowScript increments the counter and starts the window on the first
// hit, returning the count and the window's remaining milliseconds.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

func (l *Limiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	res, err := windowScript.Run(ctx, l.redis, []string{key}, l.windowMillis()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("%w: unexpected script reply %v", ErrRedisUnavailable, res)
	}
	return res[0], time.Duration(max(res[1], 0)) * time.Millisecond, nil
}

// windowMillis rounds the cooldown up to whole milliseconds; PEXPIRE 0
// would delete the counter instead of starting a window.
func (l *Limiter) windowMillis() int64 {
	ms := l.config.Cooldown.Milliseconds()
	if time.Duration(ms)*time.Millisecond < l.config.Cooldown {
		ms++
	}
	return max(ms, 1)
}
