// Package store implements the content-addressed blob storage layer.
//
// The Store interface is a minimal key-value abstraction over immutable,
// hash-identified objects: Get/Put/Has, nothing else. Writes are
// idempotent because keys are derived from content; storing the same
// bytes twice yields the same hash and is a no-op.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists for a hash.
var ErrNotFound = errors.New("store: object not found")

// Store handles content-addressed object storage.
type Store interface {
	// Get retrieves an object by hash.
	Get(ctx context.Context, hash string) ([]byte, error)

	// Put stores an object and returns its hash (hex SHA-256 of the bytes).
	Put(ctx context.Context, data []byte) (hash string, err error)

	// Has checks if an object exists.
	Has(ctx context.Context, hash string) (bool, error)
}
