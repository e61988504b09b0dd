package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "users/u1/p1.jpeg", ObjectKey("u1", "p1", "jpeg"))
	assert.Equal(t, "users/u1/p1", ObjectKey("u1", "p1", ""), "extensionless uploads keep a bare key")
}

func TestThumbnailKey(t *testing.T) {
	// Thumbnails are always JPEG regardless of the source extension
	assert.Equal(t, "users/u1/thumbnail/p1.jpeg", ThumbnailKey("u1", "p1"))
}
