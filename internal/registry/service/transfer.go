package service

import (
	"context"

	"github.com/nftopia/asset-registry/internal/events"
	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/access"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
)

// Receiver is implemented by recipients that want to vet incoming tokens.
// Returning an error rejects the transfer; the whole operation is then
// rolled back and the token stays with the sender.
type Receiver interface {
	ReceiveToken(ctx context.Context, from domain.Address, id uint64, data []byte) error
}

// RegisterReceiver attaches a receiver hook to an address. SafeTransferFrom
// consults it before committing a transfer to that address.
func (r *Registry) RegisterReceiver(addr domain.Address, receiver Receiver) {
	r.receivers[addr] = receiver
}

// Transfer moves a token from its current owner to another holder. The
// caller is the from address; it must be the owner, the token's approved
// spender, or one of the owner's operators.
func (r *Registry) Transfer(ctx context.Context, from, to domain.Address, id uint64) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := canTransfer(l, from, id); err != nil {
			return err
		}
		return doTransfer(l, batch, from, to, id)
	})
}

// SafeTransferFrom transfers a token and, when the destination has a
// registered receiver, gives it a chance to reject the transfer. A
// rejection rolls the whole operation back; no intermediate ownership is
// ever visible.
func (r *Registry) SafeTransferFrom(ctx context.Context, from, to domain.Address, id uint64, data []byte) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := canTransfer(l, from, id); err != nil {
			return err
		}
		if err := doTransfer(l, batch, from, to, id); err != nil {
			return err
		}
		receiver, ok := r.receivers[to]
		if !ok {
			return nil
		}
		if err := receiver.ReceiveToken(ctx, from, id, data); err != nil {
			return apperrors.Wrap(apperrors.CodeTransferRejected, "receiver rejected token", err)
		}
		return nil
	})
}

// BatchTransfer moves several tokens from one holder to another. The first
// pass authorizes every token before the second pass moves any of them, so
// the batch either fully applies or fully fails.
func (r *Registry) BatchTransfer(ctx context.Context, from, to domain.Address, ids []uint64) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		for _, id := range ids {
			if err := canTransfer(l, from, id); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := doTransfer(l, batch, from, to, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// canTransfer checks that from may move id: it must be the owner, the
// approved spender, or an operator of the owner.
func canTransfer(l *ledger.Ledger, from domain.Address, id uint64) error {
	owner, err := tokenOwner(l, id)
	if err != nil {
		return err
	}
	if owner == from {
		return nil
	}
	approved, found, err := l.Approved(id)
	if err != nil {
		return err
	}
	if found && approved == from {
		return nil
	}
	isOperator, err := l.OperatorApproval(owner, from)
	if err != nil {
		return err
	}
	if isOperator {
		return nil
	}
	return apperrors.ErrNotApproved
}

// doTransfer moves id from its current owner to to. The actor may be the
// owner itself, the approved spender, or an operator; authorization is
// canTransfer's job. Transfers to the current owner are a no-op. Any
// single-token approval is cleared on a real move.
func doTransfer(l *ledger.Ledger, batch *eventBatch, actor, to domain.Address, id uint64) error {
	if err := access.RequireNotPaused(l); err != nil {
		return err
	}
	owner, err := tokenOwner(l, id)
	if err != nil {
		return err
	}
	if owner == to {
		return nil
	}

	if err := l.SetTokenOwner(id, to); err != nil {
		return err
	}
	if err := l.ClearApproved(id); err != nil {
		return err
	}
	if err := l.DecrementBalance(owner); err != nil {
		return err
	}
	if err := l.IncrementBalance(to); err != nil {
		return err
	}

	batch.add(events.Event{
		Type:    events.TypeTransfer,
		Actor:   actor,
		From:    owner,
		To:      to,
		TokenID: events.TokenRef(id),
	})
	return nil
}
