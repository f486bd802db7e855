package service

import (
	"context"
	"errors"

	"github.com/holiman/uint256"

	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/access"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
	"github.com/nftopia/asset-registry/internal/storage"
)

// GetRoyaltyInfo resolves the royalty terms for id and computes the amount
// owed on salePrice: price times basis points over 10000, in 256-bit
// arithmetic.
func (r *Registry) GetRoyaltyInfo(ctx context.Context, id uint64, salePrice *uint256.Int) (domain.Address, *uint256.Int, error) {
	var info domain.RoyaltyInfo
	err := r.view(ctx, func(l *ledger.Ledger) error {
		if _, err := tokenOwner(l, id); err != nil {
			return err
		}
		var err error
		info, err = resolveRoyalty(l, id)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	amount, err := royaltyAmount(salePrice, info.BasisPoints)
	if err != nil {
		return "", nil, err
	}
	return info.Recipient, amount, nil
}

// SetDefaultRoyalty replaces the collection-level royalty terms.
// Admin-gated; existing per-token overrides keep precedence.
func (r *Registry) SetDefaultRoyalty(ctx context.Context, caller domain.Address, info domain.RoyaltyInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		return l.SetDefaultRoyalty(info)
	})
}

// SetRoyaltyInfo sets a per-token royalty override. Admin-gated.
func (r *Registry) SetRoyaltyInfo(ctx context.Context, caller domain.Address, id uint64, info domain.RoyaltyInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		if _, err := tokenOwner(l, id); err != nil {
			return err
		}
		return l.SetTokenRoyalty(id, info)
	})
}

// resolveRoyalty returns the per-token override when present, otherwise
// the collection default.
func resolveRoyalty(l *ledger.Ledger, id uint64) (domain.RoyaltyInfo, error) {
	override, found, err := l.TokenRoyalty(id)
	if err != nil {
		return domain.RoyaltyInfo{}, err
	}
	if found {
		return override, nil
	}
	info, err := l.DefaultRoyalty()
	if errors.Is(err, storage.ErrNotFound) {
		return domain.RoyaltyInfo{}, apperrors.ErrNotFound
	}
	return info, err
}

// royaltyAmount computes salePrice * basisPoints / 10000.
func royaltyAmount(salePrice *uint256.Int, basisPoints uint32) (*uint256.Int, error) {
	if salePrice == nil {
		return uint256.NewInt(0), nil
	}
	amount := new(uint256.Int)
	if _, overflow := amount.MulOverflow(salePrice, uint256.NewInt(uint64(basisPoints))); overflow {
		return nil, apperrors.New(apperrors.CodeInvalidRoyalty, "sale price too large for royalty computation")
	}
	amount.Div(amount, uint256.NewInt(domain.MaxRoyaltyBasisPoints))
	return amount, nil
}
