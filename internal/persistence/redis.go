package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// RedisStorage keeps blobs without expiry; a cart must survive until it is replaced
type RedisStorage struct {
	client *redis.Client
}

func (r RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, storageKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisStorage) Close() error {
	return r.client.Close()
}

func storageKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}
