package persistence

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage persists opaque blobs under string keys.
// Get returns ErrNotFound when nothing was stored under key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
