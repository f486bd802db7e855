// Package access resolves and checks role membership and the pause flag.
// The collection owner is singular and does not implicitly hold admin: pause
// and grant management stay admin-gated, while granting admins is owner-gated.
package access

import (
	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/ledger"
)

// RequireOwner fails with ErrNotAuthorized unless caller is the collection
// owner.
func RequireOwner(l *ledger.Ledger, caller domain.Address) error {
	owner, err := l.OwnerRole()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNotFound, "collection owner is not set", err)
	}
	if owner != caller {
		return apperrors.ErrNotAuthorized
	}
	return nil
}

// RequireAdmin fails with ErrNotAuthorized unless caller holds Admin.
func RequireAdmin(l *ledger.Ledger, caller domain.Address) error {
	return requireRole(l, domain.RoleAdmin, caller)
}

// RequireMinter fails with ErrNotAuthorized unless caller holds Minter.
func RequireMinter(l *ledger.Ledger, caller domain.Address) error {
	return requireRole(l, domain.RoleMinter, caller)
}

// RequireBurner fails with ErrNotAuthorized unless caller holds Burner.
func RequireBurner(l *ledger.Ledger, caller domain.Address) error {
	return requireRole(l, domain.RoleBurner, caller)
}

// RequireMetadataUpdater fails with ErrNotAuthorized unless caller holds
// MetadataUpdater.
func RequireMetadataUpdater(l *ledger.Ledger, caller domain.Address) error {
	return requireRole(l, domain.RoleMetadataUpdater, caller)
}

// RequireWhitelisted fails with ErrNotAuthorized unless caller is on the
// mint whitelist.
func RequireWhitelisted(l *ledger.Ledger, caller domain.Address) error {
	allowed, err := l.Whitelisted(caller)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrNotAuthorized
	}
	return nil
}

// RequireNotPaused fails with ErrPaused while the registry is paused.
func RequireNotPaused(l *ledger.Ledger) error {
	paused, err := l.Paused()
	if err != nil {
		return err
	}
	if paused {
		return apperrors.ErrPaused
	}
	return nil
}

func requireRole(l *ledger.Ledger, role domain.Role, caller domain.Address) error {
	granted, err := l.HasRole(role, caller)
	if err != nil {
		return err
	}
	if !granted {
		return apperrors.ErrNotAuthorized
	}
	return nil
}
