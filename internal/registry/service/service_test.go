package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nftopia/asset-registry/internal/events"
	apperrors "github.com/nftopia/asset-registry/internal/platform/errors"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/storage/memory"
)

const (
	owner   = domain.Address("GOWNER")
	admin   = domain.Address("GADMIN")
	minter  = domain.Address("GMINTER")
	burner  = domain.Address("GBURNER")
	updater = domain.Address("GUPDATER")
	alice   = domain.Address("GALICE")
	bob     = domain.Address("GBOB")
	carol   = domain.Address("GCAROL")
)

type fixture struct {
	registry *Registry
	recorder *events.Recorder
}

func testConfig() domain.CollectionConfig {
	return domain.CollectionConfig{
		Name:    "Test Collection",
		Symbol:  "TEST",
		BaseURI: "ipfs://base/",
		RoyaltyDefault: domain.RoyaltyInfo{
			Recipient:   owner,
			BasisPoints: 250,
		},
	}
}

// newFixture returns an initialized registry with the standard role
// assignments and a fixed clock.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	recorder := events.NewRecorder()
	registry := New(memory.NewStore(), recorder)
	registry.clock = func() time.Time {
		return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()
	if err := registry.Initialize(ctx, owner, testConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := registry.SetAdmin(ctx, owner, admin, true); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if err := registry.SetMinter(ctx, admin, minter, true); err != nil {
		t.Fatalf("set minter: %v", err)
	}
	if err := registry.SetBurner(ctx, admin, burner, true); err != nil {
		t.Fatalf("set burner: %v", err)
	}
	if err := registry.SetMetadataUpdater(ctx, admin, updater, true); err != nil {
		t.Fatalf("set metadata updater: %v", err)
	}
	return &fixture{registry: registry, recorder: recorder}
}

// mint is a test helper minting one token to recipient.
func (f *fixture) mint(t *testing.T, recipient domain.Address) uint64 {
	t.Helper()
	id, err := f.registry.Mint(context.Background(), minter, recipient, "ipfs://token", nil, nil)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return id
}

func TestInitializeOnce(t *testing.T) {
	ctx := context.Background()
	registry := New(memory.NewStore(), nil)

	if err := registry.Initialize(ctx, owner, testConfig()); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	err := registry.Initialize(ctx, owner, testConfig())
	if !errors.Is(err, apperrors.ErrAlreadyInitialized) {
		t.Fatalf("second initialize = %v, want already initialized", err)
	}
}

func TestInitializeRejectsInvalidRoyalty(t *testing.T) {
	registry := New(memory.NewStore(), nil)
	config := testConfig()
	config.RoyaltyDefault.BasisPoints = 10001

	err := registry.Initialize(context.Background(), owner, config)
	if !errors.Is(err, apperrors.ErrInvalidRoyalty) {
		t.Fatalf("initialize = %v, want invalid royalty", err)
	}
}

func TestCollectionQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name, err := f.registry.Name(ctx)
	if err != nil {
		t.Fatalf("name: %v", err)
	}
	if name != "Test Collection" {
		t.Errorf("name = %q, want %q", name, "Test Collection")
	}

	symbol, err := f.registry.Symbol(ctx)
	if err != nil {
		t.Fatalf("symbol: %v", err)
	}
	if symbol != "TEST" {
		t.Errorf("symbol = %q, want %q", symbol, "TEST")
	}

	uri, err := f.registry.BaseURI(ctx)
	if err != nil {
		t.Fatalf("base uri: %v", err)
	}
	if uri != "ipfs://base/" {
		t.Errorf("base uri = %q, want %q", uri, "ipfs://base/")
	}

	total, err := f.registry.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("total supply: %v", err)
	}
	if total != 0 {
		t.Errorf("total supply = %d, want 0", total)
	}
}

func TestQueriesOnUninitializedCollection(t *testing.T) {
	registry := New(memory.NewStore(), nil)

	if _, err := registry.Name(context.Background()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("name = %v, want not found", err)
	}
}

func TestBalanceOfUnknownHolderIsZero(t *testing.T) {
	f := newFixture(t)

	balance, err := f.registry.BalanceOf(context.Background(), carol)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0", balance)
	}
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, alice)

	if err := f.registry.Approve(ctx, alice, bob, id); err != nil {
		t.Fatalf("approve: %v", err)
	}

	approved, found, err := f.registry.GetApproved(ctx, id)
	if err != nil {
		t.Fatalf("get approved: %v", err)
	}
	if !found || approved != bob {
		t.Errorf("approved = %q found=%v, want %q true", approved, found, bob)
	}

	changed := f.recorder.OfType(events.TypeApprovalChanged)
	if len(changed) != 1 {
		t.Fatalf("approval events = %d, want 1", len(changed))
	}
}

func TestApproveRequiresOwnerOrOperator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, alice)

	err := f.registry.Approve(ctx, bob, carol, id)
	if !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Fatalf("approve by stranger = %v, want not authorized", err)
	}

	if err := f.registry.SetApprovalForAll(ctx, alice, bob, true); err != nil {
		t.Fatalf("set approval for all: %v", err)
	}
	if err := f.registry.Approve(ctx, bob, carol, id); err != nil {
		t.Fatalf("approve by operator: %v", err)
	}
}

func TestApproveUnknownToken(t *testing.T) {
	f := newFixture(t)

	err := f.registry.Approve(context.Background(), alice, bob, 99)
	if !errors.Is(err, apperrors.ErrTokenNotFound) {
		t.Fatalf("approve = %v, want token not found", err)
	}
}

func TestSetApprovalForAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.registry.SetApprovalForAll(ctx, alice, bob, true); err != nil {
		t.Fatalf("grant: %v", err)
	}
	granted, err := f.registry.IsApprovedForAll(ctx, alice, bob)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !granted {
		t.Error("operator approval not granted")
	}

	if err := f.registry.SetApprovalForAll(ctx, alice, bob, false); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	granted, err = f.registry.IsApprovedForAll(ctx, alice, bob)
	if err != nil {
		t.Fatalf("query after revoke: %v", err)
	}
	if granted {
		t.Error("operator approval not revoked")
	}
}

func TestOwnerCannotPause(t *testing.T) {
	f := newFixture(t)

	err := f.registry.SetPause(context.Background(), owner, true)
	if !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Fatalf("pause by owner = %v, want not authorized", err)
	}
}

func TestAdminCannotGrantAdmin(t *testing.T) {
	f := newFixture(t)

	err := f.registry.SetAdmin(context.Background(), admin, carol, true)
	if !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Fatalf("grant admin by admin = %v, want not authorized", err)
	}
}

func TestPauseBlocksTransfers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.mint(t, alice)

	if err := f.registry.SetPause(ctx, admin, true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	err := f.registry.Transfer(ctx, alice, bob, id)
	if !errors.Is(err, apperrors.ErrPaused) {
		t.Fatalf("transfer while paused = %v, want paused", err)
	}

	if err := f.registry.SetPause(ctx, admin, false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := f.registry.Transfer(ctx, alice, bob, id); err != nil {
		t.Fatalf("transfer after unpause: %v", err)
	}
}

func TestSupportsInterface(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		id   uint32
		want bool
	}{
		{InterfaceAssetOwnership, true},
		{InterfaceRoyalty, true},
		{InterfaceMetadata, true},
		{0xffffffff, false},
		{0, false},
	}
	for _, tc := range tests {
		if got := f.registry.SupportsInterface(tc.id); got != tc.want {
			t.Errorf("SupportsInterface(%#x) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
