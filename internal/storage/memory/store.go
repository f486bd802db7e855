// Package memory provides an in-memory key-value store for tests and tools.
package memory

import (
	"context"
	"sync"

	"github.com/nftopia/asset-registry/internal/storage"
)

// Store is an in-memory key-value store with transactional Update semantics:
// writes made in an Update whose fn returns an error are discarded.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Close releases the store. It is a no-op for the in-memory implementation.
func (s *Store) Close() error {
	return nil
}

// View runs fn against a read-only view of the current data.
func (s *Store) View(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{data: s.data, readOnly: true})
}

// Update runs fn against a scratch copy and commits it only when fn succeeds.
func (s *Store) Update(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		scratch[k] = v
	}
	if err := fn(&memTx{data: scratch}); err != nil {
		return err
	}
	s.data = scratch
	return nil
}

type memTx struct {
	data     map[string][]byte
	readOnly bool
}

func (t *memTx) Get(key []byte) ([]byte, error) {
	value, ok := t.data[string(key)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (t *memTx) Put(key, value []byte) error {
	if t.readOnly {
		return errReadOnly
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	t.data[string(key)] = stored
	return nil
}

func (t *memTx) Delete(key []byte) error {
	if t.readOnly {
		return errReadOnly
	}
	delete(t.data, string(key))
	return nil
}

var errReadOnly = readOnlyError{}

type readOnlyError struct{}

func (readOnlyError) Error() string { return "write attempted in read-only transaction" }
