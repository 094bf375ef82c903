package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// cartTTL keeps abandoned carts from accumulating forever.
const cartTTL = 30 * 24 * time.Hour

// RedisStore keeps carts in Redis so they survive restarts and are shared
// across server instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore over the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, "cart:"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoValue
		}
		return nil, err
	}
	return raw, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, "cart:"+key, value, cartTTL).Err()
}
