// Package store persists named render contexts and templates.
package store

import (
	"context"
	"errors"
	"time"
)

// Store maps (namespace, name) pairs to opaque bytes.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data under (namespace, name), replacing any previous entry.
	// Each save is assigned the next sequence number in its namespace.
	Save(ctx context.Context, namespace, name string, data []byte) error

	// Load retrieves an entry.
	// Returns ErrNotFound if the entry doesn't exist.
	Load(ctx context.Context, namespace, name string) ([]byte, error)

	// List returns the entries of a namespace ordered by sequence.
	// Returns an empty slice (not error) for an unknown namespace.
	List(ctx context.Context, namespace string) ([]Info, error)

	// Delete removes an entry.
	// Returns nil if the entry doesn't exist.
	Delete(ctx context.Context, namespace, name string) error

	// DeleteNamespace removes every entry of a namespace.
	DeleteNamespace(ctx context.Context, namespace string) error

	// Close releases any resources. Further calls fail with ErrStoreClosed.
	Close() error
}

// Info describes an entry without loading it.
type Info struct {
	Namespace string
	Name      string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("store entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")

	// ErrInvalidName indicates an empty namespace or entry name.
	ErrInvalidName = errors.New("invalid store name")
)

func validateKey(namespace, name string) error {
	if namespace == "" || name == "" {
		return ErrInvalidName
	}
	return nil
}
