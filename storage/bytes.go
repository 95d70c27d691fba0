package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge is returned when a payload exceeds the configured size limit.
var ErrTooLarge = errors.New("storage: object exceeds size limit")

// ByteClient is a []byte view over a Storage with a size limit.
type ByteClient struct {
	storage Storage
	maxSize int64
}

// NewByteClient wraps s. maxSize <= 0 disables the limit.
func NewByteClient(s Storage, maxSize int64) *ByteClient {
	return &ByteClient{storage: s, maxSize: maxSize}
}

// Put stores data at key.
func (c *ByteClient) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(data), c.maxSize)
	}
	return c.storage.Upload(ctx, key, bytes.NewReader(data), contentType)
}

// Get reads the object at key. A missing object returns ErrNotFound.
func (c *ByteClient) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := c.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := io.Reader(rc)
	if c.maxSize > 0 {
		r = io.LimitReader(rc, c.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, key)
	}
	return data, nil
}

// Delete removes the object at key.
func (c *ByteClient) Delete(ctx context.Context, key string) error {
	return c.storage.Delete(ctx, key)
}
