package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/StrixzIV/adv-compro-finals/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failOnKey wraps a store and rejects Put for one specific key
type failOnKey struct {
	storage.ObjectStore
	key string
}

func (f *failOnKey) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == f.key {
		return errors.New("simulated storage failure")
	}

	return f.ObjectStore.Put(ctx, key, body, size, contentType)
}

func TestUploaderBothObjects(t *testing.T) {
	mem := storage.NewMemory()
	u := NewUploader(mem)

	err := u.Do(context.Background(), "users/u1/p1.jpeg", "users/u1/thumbnail/p1.jpeg",
		[]byte("original"), []byte("thumb"), "image/jpeg")
	require.NoError(t, err)

	assert.True(t, mem.Has("users/u1/p1.jpeg"))
	assert.True(t, mem.Has("users/u1/thumbnail/p1.jpeg"))
}

func TestUploaderNoThumbnail(t *testing.T) {
	mem := storage.NewMemory()
	u := NewUploader(mem)

	err := u.Do(context.Background(), "users/u1/p1.gif", "users/u1/thumbnail/p1.jpeg",
		[]byte("original"), nil, "image/gif")
	require.NoError(t, err)

	assert.True(t, mem.Has("users/u1/p1.gif"))
	assert.False(t, mem.Has("users/u1/thumbnail/p1.jpeg"))
}

func TestUploaderCleanupOnFailure(t *testing.T) {
	mem := storage.NewMemory()
	u := NewUploader(&failOnKey{ObjectStore: mem, key: "users/u1/thumbnail/p1.jpeg"})

	err := u.Do(context.Background(), "users/u1/p1.jpeg", "users/u1/thumbnail/p1.jpeg",
		[]byte("original"), []byte("thumb"), "image/jpeg")
	require.Error(t, err)

	// The original that did land must be rolled back
	assert.False(t, mem.Has("users/u1/p1.jpeg"))
	assert.False(t, mem.Has("users/u1/thumbnail/p1.jpeg"))
}
