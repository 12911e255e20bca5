package storage

import (
	"context"
	"io"
)

// BlobStorage abstracts the document blob backend. Keys are opaque storage
// paths owned by the document service.
type BlobStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) error
}
