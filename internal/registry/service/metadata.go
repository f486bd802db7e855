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

// TokenURI returns the metadata URI of id.
func (r *Registry) TokenURI(ctx context.Context, id uint64) (string, error) {
	var uri string
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		uri, err = l.TokenURI(id)
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.ErrTokenNotFound
		}
		return err
	})
	return uri, err
}

// TokenMetadata returns the full metadata projection for id: ownership,
// approval, URI, provenance, attributes, resolved royalty terms, and
// edition numbering.
func (r *Registry) TokenMetadata(ctx context.Context, id uint64) (domain.TokenMetadata, error) {
	var meta domain.TokenMetadata
	err := r.view(ctx, func(l *ledger.Ledger) error {
		owner, err := tokenOwner(l, id)
		if err != nil {
			return err
		}
		meta.ID = id
		meta.Owner = owner

		approved, found, err := l.Approved(id)
		if err != nil {
			return err
		}
		if found {
			meta.Approved = approved
		}

		if meta.MetadataURI, err = l.TokenURI(id); err != nil {
			return err
		}
		if meta.CreatedAt, err = l.TokenCreatedAt(id); err != nil {
			return err
		}
		if meta.Creator, err = l.TokenCreator(id); err != nil {
			return err
		}
		if meta.Attributes, err = l.TokenAttributes(id); err != nil {
			return err
		}

		royalty, err := resolveRoyalty(l, id)
		if err != nil {
			return err
		}
		meta.RoyaltyRecipient = royalty.Recipient
		meta.RoyaltyBasisPoints = royalty.BasisPoints

		number, hasNumber, err := l.EditionNumber(id)
		if err != nil {
			return err
		}
		if hasNumber {
			meta.EditionNumber = &number
		}
		total, hasTotal, err := l.TotalEditions(id)
		if err != nil {
			return err
		}
		if hasTotal {
			meta.TotalEditions = &total
		}
		return nil
	})
	if err != nil {
		return domain.TokenMetadata{}, err
	}
	return meta, nil
}

// SetTokenURI updates the metadata URI of id. Freezing is checked before
// authorization so a frozen collection answers the same way to everyone.
func (r *Registry) SetTokenURI(ctx context.Context, caller domain.Address, id uint64, uri string) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := requireNotFrozen(l); err != nil {
			return err
		}
		owner, err := tokenOwner(l, id)
		if err != nil {
			return err
		}
		if owner != caller {
			if err := access.RequireMetadataUpdater(l, caller); err != nil {
				return err
			}
		}
		if err := l.SetTokenURI(id, uri); err != nil {
			return err
		}
		batch.add(events.Event{
			Type:    events.TypeTokenURIUpdated,
			Actor:   caller,
			TokenID: events.TokenRef(id),
			Detail:  uri,
		})
		return nil
	})
}

// SetBaseURI updates the collection base URI. Admin-gated.
func (r *Registry) SetBaseURI(ctx context.Context, caller domain.Address, uri string) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := requireNotFrozen(l); err != nil {
			return err
		}
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		if err := l.SetBaseURI(uri); err != nil {
			return err
		}
		batch.add(events.Event{
			Type:   events.TypeBaseURIUpdated,
			Actor:  caller,
			Detail: uri,
		})
		return nil
	})
}

// FreezeMetadata permanently locks all metadata. Owner-gated and
// irreversible; there is no thaw operation.
func (r *Registry) FreezeMetadata(ctx context.Context, caller domain.Address) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := access.RequireOwner(l, caller); err != nil {
			return err
		}
		if err := l.SetMetadataFrozen(true); err != nil {
			return err
		}
		batch.add(events.Event{
			Type:  events.TypeMetadataFrozen,
			Actor: caller,
		})
		return nil
	})
}

// MetadataFrozen reports whether the collection's metadata is frozen.
func (r *Registry) MetadataFrozen(ctx context.Context) (bool, error) {
	var frozen bool
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		frozen, err = l.MetadataFrozen()
		return err
	})
	return frozen, err
}

// SetEditionInfo records or clears a token's position in a limited
// edition. Nil pointers clear the respective field.
func (r *Registry) SetEditionInfo(ctx context.Context, caller domain.Address, id uint64, editionNumber, totalEditions *uint32) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := requireNotFrozen(l); err != nil {
			return err
		}
		owner, err := tokenOwner(l, id)
		if err != nil {
			return err
		}
		if owner != caller {
			if err := access.RequireMetadataUpdater(l, caller); err != nil {
				return err
			}
		}
		if err := l.SetEditionNumber(id, editionNumber); err != nil {
			return err
		}
		return l.SetTotalEditions(id, totalEditions)
	})
}

func requireNotFrozen(l *ledger.Ledger) error {
	frozen, err := l.MetadataFrozen()
	if err != nil {
		return err
	}
	if frozen {
		return apperrors.ErrMetadataFrozen
	}
	return nil
}
