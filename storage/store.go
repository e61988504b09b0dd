// Package storage provides the object storage client holding photo and
// thumbnail bytes
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectMissing is returned by Get and Stat when the backing object is
// gone despite a metadata row still pointing at it
var ErrObjectMissing = errors.New("object missing from storage")

type ObjectStore interface {
	// Put uploads body under key. Large objects go through the multipart
	// uploader
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens a stream of the object's bytes
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns the object's current size
	Stat(ctx context.Context, key string) (int64, error)

	// Remove deletes the object. An already-absent object is treated as
	// success
	Remove(ctx context.Context, key string) error

	// TotalSize walks every bucket and sums object sizes. Only acceptable
	// at small scale, which is all the dashboard needs
	TotalSize(ctx context.Context) (int64, error)

	// Ping is the liveness probe used by the dashboard
	Ping(ctx context.Context) error
}
