package storage

import "context"

// Store defines the interface for local blob persistence. Each collection is
// persisted whole under its own key; there is no partial update and no
// cross-key transaction.
type Store interface {
	// Read returns the blob persisted under key, or cnst.ErrNotFound
	Read(ctx context.Context, key string) ([]byte, error)

	// Write persists the blob under key, replacing any previous value
	Write(ctx context.Context, key string, data []byte) error

	// Keys lists every key that currently has a persisted blob
	Keys(ctx context.Context) ([]string, error)
}
