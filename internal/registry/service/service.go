// Package service implements the registry's public operation surface: the
// mint/burn and transfer engines, metadata lifecycle, royalty resolution,
// approvals, and collection administration. Every mutating operation runs
// inside the reentrancy guard and one storage transaction; events are
// published only after the transaction commits.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nftopia/asset-registry/internal/events"
	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/access"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/guard"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
	"github.com/nftopia/asset-registry/internal/storage"
)

// Registry is the non-fungible asset registry for one collection.
type Registry struct {
	kv        storage.KV
	guard     *guard.Guard
	emitter   *events.Emitter
	clock     func() time.Time
	receivers map[domain.Address]Receiver
}

// New creates a Registry over the given key-value store. A nil sink disables
// event publication.
func New(kv storage.KV, sink events.Sink) *Registry {
	return &Registry{
		kv:        kv,
		guard:     guard.New(),
		emitter:   events.NewEmitter(sink),
		clock:     time.Now,
		receivers: make(map[domain.Address]Receiver),
	}
}

// eventBatch accumulates events during a mutation; they are published only
// after the storage transaction commits.
type eventBatch struct {
	events []events.Event
}

func (b *eventBatch) add(evt events.Event) {
	b.events = append(b.events, evt)
}

// mutate runs fn under the reentrancy guard inside one all-or-nothing
// storage transaction, then publishes the collected events.
func (r *Registry) mutate(ctx context.Context, fn func(l *ledger.Ledger, batch *eventBatch) error) error {
	batch := &eventBatch{}
	err := r.guard.Do(func() error {
		return r.kv.Update(ctx, func(tx storage.Tx) error {
			return fn(ledger.Bind(tx), batch)
		})
	})
	if err != nil {
		return err
	}
	r.publish(ctx, batch.events)
	return nil
}

// view runs fn inside a read-only transaction. Views take no guard; they
// only ever observe fully-committed state.
func (r *Registry) view(ctx context.Context, fn func(l *ledger.Ledger) error) error {
	return r.kv.View(ctx, func(tx storage.Tx) error {
		return fn(ledger.Bind(tx))
	})
}

func (r *Registry) publish(ctx context.Context, evts []events.Event) {
	for _, evt := range evts {
		if err := r.emitter.Emit(ctx, evt); err != nil {
			log.Printf("event publish failed event_type=%s err=%v", evt.Type, err)
		}
	}
}

// tokenOwner maps a missing owner record to ErrTokenNotFound.
func tokenOwner(l *ledger.Ledger, id uint64) (domain.Address, error) {
	owner, err := l.TokenOwner(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.ErrTokenNotFound
		}
		return "", err
	}
	return owner, nil
}

// Initialize sets up the collection exactly once.
func (r *Registry) Initialize(ctx context.Context, owner domain.Address, config domain.CollectionConfig) error {
	config = config.Normalize()
	if err := config.Validate(); err != nil {
		return err
	}

	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		initialized, err := l.Initialized()
		if err != nil {
			return err
		}
		if initialized {
			return apperrors.ErrAlreadyInitialized
		}

		if err := l.SetInitialized(); err != nil {
			return err
		}
		if err := l.SetOwnerRole(owner); err != nil {
			return err
		}
		if err := l.SetConfig(config); err != nil {
			return err
		}
		if err := l.SetDefaultRoyalty(config.RoyaltyDefault); err != nil {
			return err
		}
		if err := l.SetBaseURI(config.BaseURI); err != nil {
			return err
		}
		if err := l.SetMetadataFrozen(config.MetadataFrozen); err != nil {
			return err
		}
		if err := l.SetNextTokenID(0); err != nil {
			return err
		}
		if err := l.SetTotalSupply(0); err != nil {
			return err
		}
		if err := l.SetPaused(false); err != nil {
			return err
		}
		if config.MaxSupply != nil {
			if err := l.SetMaxSupply(*config.MaxSupply); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Ownership & approval queries ---

// OwnerOf returns the owner of id.
func (r *Registry) OwnerOf(ctx context.Context, id uint64) (domain.Address, error) {
	var owner domain.Address
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		owner, err = tokenOwner(l, id)
		return err
	})
	return owner, err
}

// BalanceOf returns the number of tokens held. Holders with no record have
// balance 0 by design.
func (r *Registry) BalanceOf(ctx context.Context, holder domain.Address) (uint64, error) {
	var balance uint64
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		balance, err = l.Balance(holder)
		return err
	})
	return balance, err
}

// GetApproved returns the approved spender for id, if any.
func (r *Registry) GetApproved(ctx context.Context, id uint64) (domain.Address, bool, error) {
	var (
		approved domain.Address
		found    bool
	)
	err := r.view(ctx, func(l *ledger.Ledger) error {
		if _, err := tokenOwner(l, id); err != nil {
			return err
		}
		var err error
		approved, found, err = l.Approved(id)
		return err
	})
	return approved, found, err
}

// IsApprovedForAll reports whether operator holds blanket transfer rights
// over owner's tokens.
func (r *Registry) IsApprovedForAll(ctx context.Context, owner, operator domain.Address) (bool, error) {
	var approved bool
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		approved, err = l.OperatorApproval(owner, operator)
		return err
	})
	return approved, err
}

// Approve sets the approved spender for id. The caller must be the token's
// owner or one of the owner's operators.
func (r *Registry) Approve(ctx context.Context, caller, approved domain.Address, id uint64) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		owner, err := tokenOwner(l, id)
		if err != nil {
			return err
		}
		if owner != caller {
			isOperator, err := l.OperatorApproval(owner, caller)
			if err != nil {
				return err
			}
			if !isOperator {
				return apperrors.ErrNotAuthorized
			}
		}
		if err := l.SetApproved(id, approved); err != nil {
			return err
		}
		batch.add(events.Event{
			Type:    events.TypeApprovalChanged,
			Actor:   caller,
			From:    owner,
			To:      approved,
			TokenID: events.TokenRef(id),
		})
		return nil
	})
}

// SetApprovalForAll grants or revokes operator's blanket transfer rights
// over all of caller's tokens.
func (r *Registry) SetApprovalForAll(ctx context.Context, caller, operator domain.Address, approved bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, batch *eventBatch) error {
		if err := l.SetOperatorApproval(caller, operator, approved); err != nil {
			return err
		}
		batch.add(events.Event{
			Type:     events.TypeOperatorApprovalChanged,
			Actor:    caller,
			From:     caller,
			To:       operator,
			Approved: approved,
		})
		return nil
	})
}

// --- Collection queries ---

// Name returns the collection name.
func (r *Registry) Name(ctx context.Context) (string, error) {
	config, err := r.config(ctx)
	if err != nil {
		return "", err
	}
	return config.Name, nil
}

// Symbol returns the collection symbol.
func (r *Registry) Symbol(ctx context.Context) (string, error) {
	config, err := r.config(ctx)
	if err != nil {
		return "", err
	}
	return config.Symbol, nil
}

// TotalSupply returns the number of live tokens.
func (r *Registry) TotalSupply(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		total, err = l.TotalSupply()
		return err
	})
	return total, err
}

// BaseURI returns the collection base URI.
func (r *Registry) BaseURI(ctx context.Context) (string, error) {
	var uri string
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		uri, err = l.BaseURI()
		return err
	})
	return uri, err
}

func (r *Registry) config(ctx context.Context) (domain.CollectionConfig, error) {
	var config domain.CollectionConfig
	err := r.view(ctx, func(l *ledger.Ledger) error {
		var err error
		config, err = l.Config()
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	})
	return config, err
}

// --- Administration ---

// SetPause flips the pause switch. Admin-gated: the collection owner does
// not bypass this check.
func (r *Registry) SetPause(ctx context.Context, caller domain.Address, paused bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		return l.SetPaused(paused)
	})
}

// SetAdmin grants or revokes the Admin role. Owner-gated.
func (r *Registry) SetAdmin(ctx context.Context, caller, admin domain.Address, granted bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireOwner(l, caller); err != nil {
			return err
		}
		return l.SetRole(domain.RoleAdmin, admin, granted)
	})
}

// SetMinter grants or revokes the Minter role. Admin-gated.
func (r *Registry) SetMinter(ctx context.Context, caller, minter domain.Address, granted bool) error {
	return r.setRole(ctx, caller, domain.RoleMinter, minter, granted)
}

// SetBurner grants or revokes the Burner role. Admin-gated.
func (r *Registry) SetBurner(ctx context.Context, caller, burner domain.Address, granted bool) error {
	return r.setRole(ctx, caller, domain.RoleBurner, burner, granted)
}

// SetMetadataUpdater grants or revokes the MetadataUpdater role. Admin-gated.
func (r *Registry) SetMetadataUpdater(ctx context.Context, caller, updater domain.Address, granted bool) error {
	return r.setRole(ctx, caller, domain.RoleMetadataUpdater, updater, granted)
}

func (r *Registry) setRole(ctx context.Context, caller domain.Address, role domain.Role, grantee domain.Address, granted bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		return l.SetRole(role, grantee, granted)
	})
}

// SetWhitelist adds or removes member from the mint whitelist. Admin-gated.
func (r *Registry) SetWhitelist(ctx context.Context, caller, member domain.Address, allowed bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		return l.SetWhitelisted(member, allowed)
	})
}

// SetWhitelistOnlyMint toggles whitelist-only minting. Admin-gated.
func (r *Registry) SetWhitelistOnlyMint(ctx context.Context, caller domain.Address, enabled bool) error {
	return r.mutate(ctx, func(l *ledger.Ledger, _ *eventBatch) error {
		if err := access.RequireAdmin(l, caller); err != nil {
			return err
		}
		return l.SetWhitelistOnlyMint(enabled)
	})
}
