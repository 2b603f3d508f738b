package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	storage := NewRedisStorage(client)
	t.Cleanup(func() { storage.Close() })

	return storage, mr
}

func TestRedisStorage_GetMissing(t *testing.T) {
	storage, _ := setupTestRedis(t)

	v, err := storage.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, v)
}

func TestRedisStorage_SetThenGet(t *testing.T) {
	storage, mr := setupTestRedis(t)
	ctx := context.Background()
	blob := `[{"id":2,"title":"Shoe","price":139.9,"image":"img","amount":3}]`

	require.NoError(t, storage.Set(ctx, "@RocketShoes:cart", []byte(blob)))

	stored, err := mr.Get(storageKey("@RocketShoes:cart"))
	require.NoError(t, err)
	assert.Equal(t, blob, stored)

	got, err := storage.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.Equal(t, blob, string(got))
}

func TestRedisStorage_NoExpiry(t *testing.T) {
	storage, mr := setupTestRedis(t)

	require.NoError(t, storage.Set(context.Background(), "k", []byte("[]")))

	assert.Zero(t, mr.TTL(storageKey("k")))
}

func TestRedisStorage_ServerDown(t *testing.T) {
	storage, mr := setupTestRedis(t)
	mr.Close()

	_, err := storage.Get(context.Background(), "k")
	require.ErrorContains(t, err, "redis get failed")
	assert.NotErrorIs(t, err, ErrNotFound)

	err = storage.Set(context.Background(), "k", []byte("[]"))
	require.ErrorContains(t, err, "redis set failed")
}

func TestStorageKey_Format(t *testing.T) {
	assert.Equal(t, "cart:@RocketShoes:cart", storageKey("@RocketShoes:cart"))
}
