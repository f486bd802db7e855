// Package bboltkv provides a BoltDB-backed transactional key-value store.
package bboltkv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nftopia/asset-registry/internal/storage"
	"go.etcd.io/bbolt"
)

const registryBucket = "registry"

// Store provides a BoltDB-backed key-value store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// View runs fn inside a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(registryBucket))
		if bucket == nil {
			return fmt.Errorf("registry bucket is missing")
		}
		return fn(&boltTx{bucket: bucket})
	})
}

// Update runs fn inside a writable transaction. An error from fn rolls back
// every write made through the transaction.
func (s *Store) Update(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(registryBucket))
		if bucket == nil {
			return fmt.Errorf("registry bucket is missing")
		}
		return fn(&boltTx{bucket: bucket})
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(registryBucket))
		if err != nil {
			return fmt.Errorf("create registry bucket: %w", err)
		}
		return nil
	})
}

type boltTx struct {
	bucket *bbolt.Bucket
}

func (t *boltTx) Get(key []byte) ([]byte, error) {
	value := t.bucket.Get(key)
	if value == nil {
		return nil, storage.ErrNotFound
	}
	// bbolt values are only valid for the life of the transaction.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (t *boltTx) Put(key, value []byte) error {
	return t.bucket.Put(key, value)
}

func (t *boltTx) Delete(key []byte) error {
	return t.bucket.Delete(key)
}
