// Package domain holds the registry's core data model: identities,
// collection configuration, royalty terms, and token metadata.
package domain

import (
	"strings"
	"time"

	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
)

// Address identifies a holder, operator, or contract. Addresses arrive
// pre-authenticated by the surrounding runtime; the registry only compares
// them.
type Address string

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == ""
}

// MaxRoyaltyBasisPoints is the royalty ceiling: 10000 bps = 100%.
const MaxRoyaltyBasisPoints = 10000

// RoyaltyInfo describes who receives royalties and how much, in basis points.
type RoyaltyInfo struct {
	Recipient   Address
	BasisPoints uint32
}

// Validate rejects royalty percentages above 100%.
func (r RoyaltyInfo) Validate() error {
	if r.BasisPoints > MaxRoyaltyBasisPoints {
		return apperrors.ErrInvalidRoyalty
	}
	return nil
}

// TokenAttribute is a single trait on a token's on-chain metadata.
type TokenAttribute struct {
	TraitType string
	Value     string
	// DisplayType hints rendering ("number", "date", ...). Empty means none.
	DisplayType string
}

// CollectionConfig is the collection-level configuration, created once at
// initialization. Base URI, default royalty, and the frozen flag are the only
// fields with admin setters; the frozen flag moves one way.
type CollectionConfig struct {
	Name           string
	Symbol         string
	BaseURI        string
	MaxSupply      *uint64
	MintPrice      *uint64
	IsRevealed     bool
	RoyaltyDefault RoyaltyInfo
	MetadataFrozen bool
}

// Normalize trims textual fields of the collection config.
func (c CollectionConfig) Normalize() CollectionConfig {
	c.Name = strings.TrimSpace(c.Name)
	c.Symbol = strings.TrimSpace(c.Symbol)
	c.BaseURI = strings.TrimSpace(c.BaseURI)
	return c
}

// Validate checks the config's royalty bounds.
func (c CollectionConfig) Validate() error {
	return c.RoyaltyDefault.Validate()
}

// TokenMetadata is the full projection of one token's stored fields, with
// royalty fields already resolved against the collection default.
type TokenMetadata struct {
	ID                 uint64
	Owner              Address
	Approved           Address
	MetadataURI        string
	CreatedAt          time.Time
	Creator            Address
	RoyaltyBasisPoints uint32
	RoyaltyRecipient   Address
	Attributes         []TokenAttribute
	EditionNumber      *uint32
	TotalEditions      *uint32
}

// Role enumerates grantable mutation rights. The collection owner is tracked
// separately and is singular.
type Role int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified Role = iota
	// RoleAdmin manages grants, pause, and collection-level settings.
	RoleAdmin
	// RoleMinter may create tokens.
	RoleMinter
	// RoleBurner may destroy tokens it does not own.
	RoleBurner
	// RoleMetadataUpdater may rewrite token metadata it does not own.
	RoleMetadataUpdater
)

// String returns the storage name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMinter:
		return "minter"
	case RoleBurner:
		return "burner"
	case RoleMetadataUpdater:
		return "metadata_updater"
	default:
		return "unspecified"
	}
}
