package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeCacheNoRedis(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, "users/u1/p1.jpeg", bytes.NewReader(make([]byte, 1234)), 1234, "image/jpeg"))

	cache := NewSizeCache(nil, mem)

	size, err := cache.Get(ctx, "users/u1/p1.jpeg")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), size)

	// Forget without redis is a no-op, not a panic
	cache.Forget(ctx, "users/u1/p1.jpeg")

	_, err = cache.Get(ctx, "users/u1/missing.jpeg")
	assert.ErrorIs(t, err, ErrObjectMissing)
}
