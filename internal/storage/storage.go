package storage

import (
	"context"
	"io"
)

// ObjectStorage is the object store uploaded images are written to.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}
