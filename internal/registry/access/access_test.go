package access

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
	"github.com/nftopia/asset-registry/internal/storage"
	"github.com/nftopia/asset-registry/internal/storage/memory"
)

func withLedger(t *testing.T, fn func(l *ledger.Ledger) error) {
	t.Helper()
	store := memory.NewStore()
	if err := store.Update(context.Background(), func(tx storage.Tx) error {
		return fn(ledger.Bind(tx))
	}); err != nil {
		t.Fatalf("ledger transaction: %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	withLedger(t, func(l *ledger.Ledger) error {
		if err := l.SetOwnerRole("owner-o"); err != nil {
			return err
		}

		if err := RequireOwner(l, "owner-o"); err != nil {
			t.Fatalf("expected owner to pass, got %v", err)
		}
		if err := RequireOwner(l, "imposter"); !errors.Is(err, apperrors.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
		return nil
	})
}

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		require func(*ledger.Ledger, domain.Address) error
	}{
		{"admin", domain.RoleAdmin, RequireAdmin},
		{"minter", domain.RoleMinter, RequireMinter},
		{"burner", domain.RoleBurner, RequireBurner},
		{"metadata updater", domain.RoleMetadataUpdater, RequireMetadataUpdater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withLedger(t, func(l *ledger.Ledger) error {
				if err := tt.require(l, "grantee"); !errors.Is(err, apperrors.ErrNotAuthorized) {
					t.Fatalf("expected denial before grant, got %v", err)
				}
				if err := l.SetRole(tt.role, "grantee", true); err != nil {
					return err
				}
				if err := tt.require(l, "grantee"); err != nil {
					t.Fatalf("expected pass after grant, got %v", err)
				}
				return nil
			})
		})
	}
}

func TestOwnerDoesNotImplyAdmin(t *testing.T) {
	withLedger(t, func(l *ledger.Ledger) error {
		if err := l.SetOwnerRole("owner-o"); err != nil {
			return err
		}
		if err := RequireAdmin(l, "owner-o"); !errors.Is(err, apperrors.ErrNotAuthorized) {
			t.Fatalf("expected owner to fail admin check, got %v", err)
		}
		return nil
	})
}

func TestRequireWhitelisted(t *testing.T) {
	withLedger(t, func(l *ledger.Ledger) error {
		if err := RequireWhitelisted(l, "member"); !errors.Is(err, apperrors.ErrNotAuthorized) {
			t.Fatalf("expected denial before whitelisting, got %v", err)
		}
		if err := l.SetWhitelisted("member", true); err != nil {
			return err
		}
		if err := RequireWhitelisted(l, "member"); err != nil {
			t.Fatalf("expected pass after whitelisting, got %v", err)
		}
		return nil
	})
}

func TestRequireNotPaused(t *testing.T) {
	withLedger(t, func(l *ledger.Ledger) error {
		if err := RequireNotPaused(l); err != nil {
			t.Fatalf("expected unpaused registry to pass, got %v", err)
		}
		if err := l.SetPaused(true); err != nil {
			return err
		}
		if err := RequireNotPaused(l); !errors.Is(err, apperrors.ErrPaused) {
			t.Fatalf("expected ErrPaused, got %v", err)
		}
		return nil
	})
}
