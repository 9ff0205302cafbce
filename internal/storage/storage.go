// Package storage abstracts blob storage for uploaded media.
package storage

import (
	"context"
	"io"
)

// Store persists media blobs and returns publicly reachable URLs.
type Store interface {
	// Put writes the object and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes the object. Removing a missing object is not an error.
	Remove(ctx context.Context, key string) error
}
