package ledger

import (
	"fmt"

	"github.com/nftopia/asset-registry/internal/registry/domain"
)

// The key space is flat and strongly typed: every key is produced by one of
// the constructors below, so each field family has a fixed value type and
// removal can enumerate every per-token key.

// Singleton fields.
var (
	keyInitialized       = []byte("config/initialized")
	keyOwnerRole         = []byte("config/owner")
	keyCollection        = []byte("config/collection")
	keyDefaultRoyalty    = []byte("config/default_royalty")
	keyBaseURI           = []byte("config/base_uri")
	keyMetadataFrozen    = []byte("config/metadata_frozen")
	keyPaused            = []byte("config/paused")
	keyWhitelistOnlyMint = []byte("config/whitelist_only_mint")
	keyNextTokenID       = []byte("counter/next_token_id")
	keyTotalSupply       = []byte("counter/total_supply")
	keyMaxSupply         = []byte("counter/max_supply")
)

// Per-token field names.
const (
	fieldOwner         = "owner"
	fieldApproved      = "approved"
	fieldURI           = "uri"
	fieldCreatedAt     = "created_at"
	fieldCreator       = "creator"
	fieldAttributes    = "attributes"
	fieldRoyalty       = "royalty"
	fieldEditionNumber = "edition_number"
	fieldTotalEditions = "total_editions"
)

// tokenFields lists every per-token field so RemoveToken leaves no orphans.
var tokenFields = []string{
	fieldOwner,
	fieldApproved,
	fieldURI,
	fieldCreatedAt,
	fieldCreator,
	fieldAttributes,
	fieldRoyalty,
	fieldEditionNumber,
	fieldTotalEditions,
}

func tokenKey(field string, id uint64) []byte {
	return []byte(fmt.Sprintf("token/%s/%d", field, id))
}

func balanceKey(holder domain.Address) []byte {
	return []byte(fmt.Sprintf("holder/balance/%s", holder))
}

func roleKey(role domain.Role, grantee domain.Address) []byte {
	return []byte(fmt.Sprintf("role/%s/%s", role, grantee))
}

func whitelistKey(member domain.Address) []byte {
	return []byte(fmt.Sprintf("whitelist/%s", member))
}

func operatorKey(owner, operator domain.Address) []byte {
	return []byte(fmt.Sprintf("operator/%s/%s", owner, operator))
}
