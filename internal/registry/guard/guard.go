// Package guard rejects reentrant entry into the registry's critical
// sections. The lock is advisory and coarse: one flag for the whole ledger,
// held for the duration of a single top-level mutating operation.
package guard

import (
	"sync/atomic"

	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
)

// Guard is a single-flag reentrancy lock.
type Guard struct {
	held atomic.Bool
}

// New creates an unlocked guard.
func New() *Guard {
	return &Guard{}
}

// Do runs fn while holding the lock. A nested Do from within fn — the
// receiver-acknowledgement callback re-entering the registry — fails with
// ErrReentrancyDetected. The lock is released on every exit path.
func (g *Guard) Do(fn func() error) error {
	if !g.held.CompareAndSwap(false, true) {
		return apperrors.ErrReentrancyDetected
	}
	defer g.held.Store(false)
	return fn()
}
