package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore implements Store with Redis INCR, which is atomic across all
// processes sharing the counter.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a connected client. The prefix namespaces limiter keys
// away from other users of the same database.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, s.prefix+key)
	// NX keeps the expiry armed by the window's first request; later
	// increments must not extend it.
	pipe.ExpireNX(ctx, s.prefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
