package storage

import (
	"context"
	"io"
)

// ObjectStore is a flat key/value blob backend with public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(publicURL string) (string, error)
}

const cacheForever = "public, max-age=31536000, immutable"
