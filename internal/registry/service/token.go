package service

import (
	"context"
	"errors"

	"github.com/nftopia/asset-registry/internal/events"
	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/access"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
	"github.com/nftopia/asset-registry/internal/storage"
)

// Mint creates a new token for recipient and returns its id. The caller
// must hold the Minter role; when whitelist-only minting is on, the caller
// must also be whitelisted. A non-nil royalty sets a per-token override.
func (r *Registry) Mint(ctx context.Context, caller, recipient domain.Address, uri string, attributes []domain.TokenAttribute, royalty *domain.RoyaltyInfo) (uint64, error) {
	var id uint64
	err := r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := r.requireMintable(l, caller); err != nil {
			return err
		}
		var err error
		id, err = r.mintOne(l, batch, caller, recipient, uri, attributes, royalty)
		return err
	})
	return id, err
}

// BatchMint creates one token per recipient in a single operation. The
// three slices are parallel; a length mismatch fails before any state is
// touched. Role, pause, and whitelist checks run once for the whole batch.
// Either every token is minted or none are.
func (r *Registry) BatchMint(ctx context.Context, caller domain.Address, recipients []domain.Address, uris []string, attributes [][]domain.TokenAttribute) ([]uint64, error) {
	if len(recipients) != len(uris) || len(recipients) != len(attributes) {
		return nil, apperrors.ErrBatchLengthMismatch
	}

	ids := make([]uint64, 0, len(recipients))
	err := r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		ids = ids[:0]
		if err := r.requireMintable(l, caller); err != nil {
			return err
		}
		for i, recipient := range recipients {
			id, err := r.mintOne(l, batch, caller, recipient, uris[i], attributes[i], nil)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Burn destroys a token. The destruction must be explicitly confirmed; a
// caller who is not the token's owner must hold the Burner role.
func (r *Registry) Burn(ctx context.Context, caller domain.Address, id uint64, confirm bool) error {
	if !confirm {
		return apperrors.ErrBurnNotConfirmed
	}

	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		owner, err := tokenOwner(l, id)
		if err != nil {
			return err
		}
		if owner != caller {
			if err := access.RequireBurner(l, caller); err != nil {
				return err
			}
		}

		if err := l.RemoveToken(id); err != nil {
			return err
		}
		if err := l.DecrementBalance(owner); err != nil {
			return err
		}
		total, err := l.TotalSupply()
		if err != nil {
			return err
		}
		if total > 0 {
			if err := l.SetTotalSupply(total - 1); err != nil {
				return err
			}
		}

		batch.add(events.Event{
			Type:    events.TypeBurn,
			Actor:   caller,
			From:    owner,
			TokenID: events.TokenRef(id),
		})
		return nil
	})
}

func (r *Registry) requireMintable(l *ledger.Ledger, caller domain.Address) error {
	if err := access.RequireMinter(l, caller); err != nil {
		return err
	}
	if err := access.RequireNotPaused(l); err != nil {
		return err
	}
	whitelistOnly, err := l.WhitelistOnlyMint()
	if err != nil {
		return err
	}
	if whitelistOnly {
		if err := access.RequireWhitelisted(l, caller); err != nil {
			return err
		}
	}
	return nil
}

// mintOne performs one mint after the caller-level checks have passed. The
// supply ceiling is re-checked per token so batches cannot overshoot it.
func (r *Registry) mintOne(l *ledger.Ledger, batch *eventBatch, caller, recipient domain.Address, uri string, attributes []domain.TokenAttribute, royalty *domain.RoyaltyInfo) (uint64, error) {
	total, err := l.TotalSupply()
	if err != nil {
		return 0, err
	}
	max, capped, err := l.MaxSupply()
	if err != nil {
		return 0, err
	}
	if capped && total >= max {
		return 0, apperrors.ErrSupplyLimitExceeded
	}

	id, err := l.NextTokenID()
	if err != nil {
		return 0, err
	}

	if err := l.SetTokenOwner(id, recipient); err != nil {
		return 0, err
	}
	if err := l.SetTokenURI(id, uri); err != nil {
		return 0, err
	}
	if err := l.SetTokenCreatedAt(id, r.clock()); err != nil {
		return 0, err
	}
	if err := l.SetTokenCreator(id, caller); err != nil {
		return 0, err
	}
	if len(attributes) > 0 {
		if err := l.SetTokenAttributes(id, attributes); err != nil {
			return 0, err
		}
	}

	if royalty != nil {
		if err := royalty.Validate(); err != nil {
			return 0, err
		}
		if err := l.SetTokenRoyalty(id, *royalty); err != nil {
			return 0, err
		}
	} else if _, err := l.DefaultRoyalty(); err != nil {
		// A collection without a default royalty was never initialized.
		if errors.Is(err, storage.ErrNotFound) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}

	if err := l.IncrementBalance(recipient); err != nil {
		return 0, err
	}
	if err := l.SetTotalSupply(total + 1); err != nil {
		return 0, err
	}
	if err := l.SetNextTokenID(id + 1); err != nil {
		return 0, err
	}

	batch.add(events.Event{
		Type:    events.TypeMint,
		Actor:   caller,
		To:      recipient,
		TokenID: events.TokenRef(id),
	})
	return id, nil
}
