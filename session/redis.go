package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/jwt"
	"github.com/redis/go-redis/v9"
)

const minSessionTTL = time.Second

// RedisStore keeps the session JSON under a single Redis key. The key
// expires together with the token when the token carries an exp claim.
type RedisStore struct {
	redis redis.UniversalClient
	key   string
	now   func() time.Time
}

// NewRedisStore creates a RedisStore writing to "prefix:key".
func NewRedisStore(rdb redis.UniversalClient, prefix, key string) *RedisStore {
	if prefix == "" {
		prefix = "gs"
	}
	return &RedisStore{
		redis: rdb,
		key:   prefix + ":" + key,
		now:   time.Now,
	}
}

// Key returns the Redis key holding the session.
func (s *RedisStore) Key() string {
	return s.key
}

// Token returns the stored token.
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Load reads and decodes the stored session.
func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return Decode(data)
}

// Save writes sess. The TTL follows the token exp; tokens without exp are
// stored without expiry.
func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	data, err := Encode(&sess)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if exp, ok := jwt.ExpirationTime(sess.Token); ok {
		ttl = exp.Sub(s.now())
		if ttl < minSessionTTL {
			ttl = minSessionTTL
		}
	}

	if err := s.redis.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the stored session. Deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
