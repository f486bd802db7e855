// Package ledger is the registry's data-access layer: typed get/set/remove
// for every stored field, keyed by token id or holder identity. It carries no
// authorization logic; missing optional fields read as documented defaults.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/storage"
)

// Ledger provides typed field access within one storage transaction.
type Ledger struct {
	tx storage.Tx
}

// Bind wraps a storage transaction in typed accessors.
func Bind(tx storage.Tx) *Ledger {
	return &Ledger{tx: tx}
}

func (l *Ledger) getJSON(key []byte, out any) (bool, error) {
	payload, err := l.tx.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (l *Ledger) putJSON(key []byte, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return l.tx.Put(key, payload)
}

func (l *Ledger) getBool(key []byte) (bool, error) {
	var value bool
	if _, err := l.getJSON(key, &value); err != nil {
		return false, err
	}
	return value, nil
}

func (l *Ledger) getUint64(key []byte) (uint64, error) {
	var value uint64
	if _, err := l.getJSON(key, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// --- Lifecycle ---

// Initialized reports whether the collection has been initialized.
func (l *Ledger) Initialized() (bool, error) {
	return l.getBool(keyInitialized)
}

// SetInitialized marks the collection as initialized.
func (l *Ledger) SetInitialized() error {
	return l.putJSON(keyInitialized, true)
}

// --- Collection config ---

// OwnerRole returns the singular collection owner.
func (l *Ledger) OwnerRole() (domain.Address, error) {
	var owner domain.Address
	found, err := l.getJSON(keyOwnerRole, &owner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", storage.ErrNotFound
	}
	return owner, nil
}

// SetOwnerRole records the collection owner. Set once at initialization.
func (l *Ledger) SetOwnerRole(owner domain.Address) error {
	return l.putJSON(keyOwnerRole, owner)
}

// Config returns the collection configuration.
func (l *Ledger) Config() (domain.CollectionConfig, error) {
	var config domain.CollectionConfig
	found, err := l.getJSON(keyCollection, &config)
	if err != nil {
		return domain.CollectionConfig{}, err
	}
	if !found {
		return domain.CollectionConfig{}, storage.ErrNotFound
	}
	return config, nil
}

// SetConfig stores the collection configuration.
func (l *Ledger) SetConfig(config domain.CollectionConfig) error {
	return l.putJSON(keyCollection, config)
}

// DefaultRoyalty returns the collection-level royalty terms.
func (l *Ledger) DefaultRoyalty() (domain.RoyaltyInfo, error) {
	var info domain.RoyaltyInfo
	found, err := l.getJSON(keyDefaultRoyalty, &info)
	if err != nil {
		return domain.RoyaltyInfo{}, err
	}
	if !found {
		return domain.RoyaltyInfo{}, storage.ErrNotFound
	}
	return info, nil
}

// SetDefaultRoyalty stores the collection-level royalty terms.
func (l *Ledger) SetDefaultRoyalty(info domain.RoyaltyInfo) error {
	return l.putJSON(keyDefaultRoyalty, info)
}

// BaseURI returns the collection base URI. Absent reads as empty.
func (l *Ledger) BaseURI() (string, error) {
	var uri string
	if _, err := l.getJSON(keyBaseURI, &uri); err != nil {
		return "", err
	}
	return uri, nil
}

// SetBaseURI stores the collection base URI.
func (l *Ledger) SetBaseURI(uri string) error {
	return l.putJSON(keyBaseURI, uri)
}

// MetadataFrozen reports whether collection metadata is frozen.
func (l *Ledger) MetadataFrozen() (bool, error) {
	return l.getBool(keyMetadataFrozen)
}

// SetMetadataFrozen stores the freeze flag. The flag only moves to true.
func (l *Ledger) SetMetadataFrozen(frozen bool) error {
	return l.putJSON(keyMetadataFrozen, frozen)
}

// Paused reports whether mutations are paused.
func (l *Ledger) Paused() (bool, error) {
	return l.getBool(keyPaused)
}

// SetPaused stores the pause flag.
func (l *Ledger) SetPaused(paused bool) error {
	return l.putJSON(keyPaused, paused)
}

// WhitelistOnlyMint reports whether minting is restricted to the whitelist.
func (l *Ledger) WhitelistOnlyMint() (bool, error) {
	return l.getBool(keyWhitelistOnlyMint)
}

// SetWhitelistOnlyMint stores the whitelist-only toggle.
func (l *Ledger) SetWhitelistOnlyMint(enabled bool) error {
	return l.putJSON(keyWhitelistOnlyMint, enabled)
}

// --- Counters ---

// NextTokenID returns the next id to assign. Absent reads as 0.
func (l *Ledger) NextTokenID() (uint64, error) {
	return l.getUint64(keyNextTokenID)
}

// SetNextTokenID stores the next id to assign.
func (l *Ledger) SetNextTokenID(id uint64) error {
	return l.putJSON(keyNextTokenID, id)
}

// TotalSupply returns the current token count. Absent reads as 0.
func (l *Ledger) TotalSupply() (uint64, error) {
	return l.getUint64(keyTotalSupply)
}

// SetTotalSupply stores the current token count.
func (l *Ledger) SetTotalSupply(total uint64) error {
	return l.putJSON(keyTotalSupply, total)
}

// MaxSupply returns the optional supply ceiling.
func (l *Ledger) MaxSupply() (uint64, bool, error) {
	var max uint64
	found, err := l.getJSON(keyMaxSupply, &max)
	if err != nil {
		return 0, false, err
	}
	return max, found, nil
}

// SetMaxSupply stores the supply ceiling.
func (l *Ledger) SetMaxSupply(max uint64) error {
	return l.putJSON(keyMaxSupply, max)
}

// --- Roles ---

// HasRole reports whether grantee holds role.
func (l *Ledger) HasRole(role domain.Role, grantee domain.Address) (bool, error) {
	return l.getBool(roleKey(role, grantee))
}

// SetRole grants or revokes role for grantee.
func (l *Ledger) SetRole(role domain.Role, grantee domain.Address, granted bool) error {
	return l.putJSON(roleKey(role, grantee), granted)
}

// Whitelisted reports whether member is on the mint whitelist.
func (l *Ledger) Whitelisted(member domain.Address) (bool, error) {
	return l.getBool(whitelistKey(member))
}

// SetWhitelisted adds or removes member from the mint whitelist.
func (l *Ledger) SetWhitelisted(member domain.Address, allowed bool) error {
	return l.putJSON(whitelistKey(member), allowed)
}

// --- Per-token fields ---

// TokenOwner returns the owner of id, or storage.ErrNotFound for a token
// that does not exist.
func (l *Ledger) TokenOwner(id uint64) (domain.Address, error) {
	var owner domain.Address
	found, err := l.getJSON(tokenKey(fieldOwner, id), &owner)
	if err != nil {
		return "", err
	}
	if !found {
		return "", storage.ErrNotFound
	}
	return owner, nil
}

// SetTokenOwner records the owner of id.
func (l *Ledger) SetTokenOwner(id uint64, owner domain.Address) error {
	return l.putJSON(tokenKey(fieldOwner, id), owner)
}

// Approved returns the approved spender for id, if any.
func (l *Ledger) Approved(id uint64) (domain.Address, bool, error) {
	var approved domain.Address
	found, err := l.getJSON(tokenKey(fieldApproved, id), &approved)
	if err != nil {
		return "", false, err
	}
	return approved, found, nil
}

// SetApproved records the approved spender for id.
func (l *Ledger) SetApproved(id uint64, approved domain.Address) error {
	return l.putJSON(tokenKey(fieldApproved, id), approved)
}

// ClearApproved removes any approval on id.
func (l *Ledger) ClearApproved(id uint64) error {
	return l.tx.Delete(tokenKey(fieldApproved, id))
}

// TokenURI returns the metadata URI for id, or storage.ErrNotFound.
func (l *Ledger) TokenURI(id uint64) (string, error) {
	var uri string
	found, err := l.getJSON(tokenKey(fieldURI, id), &uri)
	if err != nil {
		return "", err
	}
	if !found {
		return "", storage.ErrNotFound
	}
	return uri, nil
}

// SetTokenURI stores the metadata URI for id.
func (l *Ledger) SetTokenURI(id uint64, uri string) error {
	return l.putJSON(tokenKey(fieldURI, id), uri)
}

// TokenCreatedAt returns the creation time of id, or storage.ErrNotFound.
func (l *Ledger) TokenCreatedAt(id uint64) (time.Time, error) {
	var millis int64
	found, err := l.getJSON(tokenKey(fieldCreatedAt, id), &millis)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Time{}, storage.ErrNotFound
	}
	return time.UnixMilli(millis).UTC(), nil
}

// SetTokenCreatedAt stores the creation time of id.
func (l *Ledger) SetTokenCreatedAt(id uint64, at time.Time) error {
	return l.putJSON(tokenKey(fieldCreatedAt, id), at.UTC().UnixMilli())
}

// TokenCreator returns the minting identity of id, or storage.ErrNotFound.
func (l *Ledger) TokenCreator(id uint64) (domain.Address, error) {
	var creator domain.Address
	found, err := l.getJSON(tokenKey(fieldCreator, id), &creator)
	if err != nil {
		return "", err
	}
	if !found {
		return "", storage.ErrNotFound
	}
	return creator, nil
}

// SetTokenCreator stores the minting identity of id.
func (l *Ledger) SetTokenCreator(id uint64, creator domain.Address) error {
	return l.putJSON(tokenKey(fieldCreator, id), creator)
}

// TokenAttributes returns the attribute list for id. Absent reads as empty.
func (l *Ledger) TokenAttributes(id uint64) ([]domain.TokenAttribute, error) {
	var attributes []domain.TokenAttribute
	if _, err := l.getJSON(tokenKey(fieldAttributes, id), &attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// SetTokenAttributes stores the attribute list for id.
func (l *Ledger) SetTokenAttributes(id uint64, attributes []domain.TokenAttribute) error {
	return l.putJSON(tokenKey(fieldAttributes, id), attributes)
}

// TokenRoyalty returns the per-token royalty override, if any.
func (l *Ledger) TokenRoyalty(id uint64) (domain.RoyaltyInfo, bool, error) {
	var info domain.RoyaltyInfo
	found, err := l.getJSON(tokenKey(fieldRoyalty, id), &info)
	if err != nil {
		return domain.RoyaltyInfo{}, false, err
	}
	return info, found, nil
}

// SetTokenRoyalty stores a per-token royalty override.
func (l *Ledger) SetTokenRoyalty(id uint64, info domain.RoyaltyInfo) error {
	return l.putJSON(tokenKey(fieldRoyalty, id), info)
}

// EditionNumber returns the token's edition number, if set.
func (l *Ledger) EditionNumber(id uint64) (uint32, bool, error) {
	var number uint32
	found, err := l.getJSON(tokenKey(fieldEditionNumber, id), &number)
	if err != nil {
		return 0, false, err
	}
	return number, found, nil
}

// SetEditionNumber stores the token's edition number; nil clears it.
func (l *Ledger) SetEditionNumber(id uint64, number *uint32) error {
	if number == nil {
		return l.tx.Delete(tokenKey(fieldEditionNumber, id))
	}
	return l.putJSON(tokenKey(fieldEditionNumber, id), *number)
}

// TotalEditions returns the token's edition total, if set.
func (l *Ledger) TotalEditions(id uint64) (uint32, bool, error) {
	var total uint32
	found, err := l.getJSON(tokenKey(fieldTotalEditions, id), &total)
	if err != nil {
		return 0, false, err
	}
	return total, found, nil
}

// SetTotalEditions stores the token's edition total; nil clears it.
func (l *Ledger) SetTotalEditions(id uint64, total *uint32) error {
	if total == nil {
		return l.tx.Delete(tokenKey(fieldTotalEditions, id))
	}
	return l.putJSON(tokenKey(fieldTotalEditions, id), *total)
}

// RemoveToken deletes every field stored for id.
func (l *Ledger) RemoveToken(id uint64) error {
	for _, field := range tokenFields {
		if err := l.tx.Delete(tokenKey(field, id)); err != nil {
			return err
		}
	}
	return nil
}

// --- Per-holder fields ---

// Balance returns the holder's token count. Absent reads as 0.
func (l *Ledger) Balance(holder domain.Address) (uint64, error) {
	return l.getUint64(balanceKey(holder))
}

// SetBalance stores the holder's token count.
func (l *Ledger) SetBalance(holder domain.Address, balance uint64) error {
	return l.putJSON(balanceKey(holder), balance)
}

// IncrementBalance adds one to the holder's token count.
func (l *Ledger) IncrementBalance(holder domain.Address) error {
	balance, err := l.Balance(holder)
	if err != nil {
		return err
	}
	return l.SetBalance(holder, balance+1)
}

// DecrementBalance subtracts one from the holder's token count, saturating
// at zero.
func (l *Ledger) DecrementBalance(holder domain.Address) error {
	balance, err := l.Balance(holder)
	if err != nil {
		return err
	}
	if balance > 0 {
		balance--
	}
	return l.SetBalance(holder, balance)
}

// OperatorApproval reports whether operator holds blanket transfer rights
// over owner's tokens.
func (l *Ledger) OperatorApproval(owner, operator domain.Address) (bool, error) {
	return l.getBool(operatorKey(owner, operator))
}

// SetOperatorApproval grants or revokes blanket transfer rights.
func (l *Ledger) SetOperatorApproval(owner, operator domain.Address, approved bool) error {
	return l.putJSON(operatorKey(owner, operator), approved)
}
