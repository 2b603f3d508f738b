package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_GetMissing(t *testing.T) {
	s := NewMemoryStorage()

	v, err := s.Get(context.Background(), "@RocketShoes:cart")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, v)
}

func TestMemoryStorage_SetThenGet(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`[{"id":1,"amount":1}]`)))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"amount":1}]`, string(v))
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[1] = 'y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}
