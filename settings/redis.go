package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each key as a plain Redis string with no expiry.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
