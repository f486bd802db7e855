// Package storage defines the transactional key-value substrate the ledger
// persists into.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Tx provides keyed access within a single transaction.
type Tx interface {
	// Get returns the value for key, or ErrNotFound when the key is absent.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// KV is a transactional key-value store. Update is all-or-nothing: when fn
// returns an error every write made through its Tx is discarded.
type KV interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}
