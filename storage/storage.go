package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Download when no object exists at the key.
var ErrNotFound = errors.New("storage: object not found")

// Storage is a flat key/value object store.
type Storage interface {
	// Upload writes reader to key, replacing any existing object.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download returns a reader for the object at key. The caller closes it.
	// A missing object yields an error wrapping ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)
}
