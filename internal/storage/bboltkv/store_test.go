package bboltkv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/nftopia/asset-registry/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePutGetDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Update(ctx, func(tx storage.Tx) error {
		return tx.Put([]byte("token/owner/0"), []byte(`"holder-a"`))
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = store.View(ctx, func(tx storage.Tx) error {
		value, err := tx.Get([]byte("token/owner/0"))
		if err != nil {
			return err
		}
		if string(value) != `"holder-a"` {
			return fmt.Errorf("unexpected value %q", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	err = store.Update(ctx, func(tx storage.Tx) error {
		return tx.Delete([]byte("token/owner/0"))
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = store.View(ctx, func(tx storage.Tx) error {
		_, err := tx.Get([]byte("token/owner/0"))
		return err
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := openTestStore(t)

	err := store.View(context.Background(), func(tx storage.Tx) error {
		_, err := tx.Get([]byte("missing"))
		return err
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreUpdateRollsBackOnError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	failure := errors.New("abort")
	err := store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.Put([]byte("counter/total_supply"), []byte("1")); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected abort error, got %v", err)
	}

	err = store.View(ctx, func(tx storage.Tx) error {
		_, err := tx.Get([]byte("counter/total_supply"))
		return err
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected write to be rolled back, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
