package restore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "landchain:wallet:connected:"

	// DefaultTTL bounds how long an unused hint survives.
	DefaultTTL = 30 * 24 * time.Hour
)

// RedisStore keeps hints in Redis so several console instances behind one
// user share them. Absent keys mean "not connected".
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) WasConnected(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read restore hint: %w", err)
	}
	return true, nil
}

func (s *RedisStore) SetConnected(ctx context.Context, key string, connected bool) error {
	if !connected {
		if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
			return fmt.Errorf("clear restore hint: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+key, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("write restore hint: %w", err)
	}
	return nil
}
