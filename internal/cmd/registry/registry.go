// Package registry implements the registry maintenance CLI: it initializes
// a collection, inspects tokens, and tails the event journal against the
// on-disk stores.
package registry

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/nftopia/asset-registry/internal/events"
	eventsqlite "github.com/nftopia/asset-registry/internal/events/sqlite"
	"github.com/nftopia/asset-registry/internal/platform/config"
	"github.com/nftopia/asset-registry/internal/registry/domain"
	"github.com/nftopia/asset-registry/internal/registry/service"
	"github.com/nftopia/asset-registry/internal/storage/bboltkv"
)

// Config holds registry command configuration. Environment variables set
// the store locations; flags select the action and override paths.
type Config struct {
	LedgerPath string `env:"REGISTRY_LEDGER_DB_PATH" envDefault:"registry.db"`
	EventsPath string `env:"REGISTRY_EVENTS_DB_PATH"`

	Init       bool
	Owner      string
	Name       string
	Symbol     string
	BaseURI    string
	MaxSupply  uint64
	RoyaltyTo  string
	RoyaltyBps uint

	Info        bool
	TokenID     uint64
	ShowToken   bool
	EventsLimit int
}

// ParseConfig parses environment variables and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	ledgerPath := fs.String("ledger", "", "path to the ledger database (overrides env)")
	eventsPath := fs.String("events-db", "", "path to the event journal (overrides env)")
	fs.BoolVar(&cfg.Init, "init", false, "initialize the collection")
	fs.StringVar(&cfg.Owner, "owner", "", "collection owner address (required with -init)")
	fs.StringVar(&cfg.Name, "name", "", "collection name")
	fs.StringVar(&cfg.Symbol, "symbol", "", "collection symbol")
	fs.StringVar(&cfg.BaseURI, "base-uri", "", "collection base URI")
	fs.Uint64Var(&cfg.MaxSupply, "max-supply", 0, "supply ceiling (0 = unlimited)")
	fs.StringVar(&cfg.RoyaltyTo, "royalty-recipient", "", "default royalty recipient")
	fs.UintVar(&cfg.RoyaltyBps, "royalty-bps", 0, "default royalty in basis points")
	fs.BoolVar(&cfg.Info, "info", false, "print the collection summary")
	tokenID := fs.Uint64("token", 0, "print metadata for a token id")
	fs.IntVar(&cfg.EventsLimit, "events", 0, "print the most recent N events")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	config.Overlay(fs, map[string]func(){
		"ledger":    func() { cfg.LedgerPath = *ledgerPath },
		"events-db": func() { cfg.EventsPath = *eventsPath },
		"token":     func() { cfg.TokenID = *tokenID; cfg.ShowToken = true },
	})

	if cfg.Init && cfg.Owner == "" {
		return Config{}, fmt.Errorf("-init requires -owner")
	}
	return cfg, nil
}

// Run executes the registry command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	kv, err := bboltkv.Open(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer kv.Close()

	var (
		sink    events.Sink
		journal *eventsqlite.Store
	)
	if cfg.EventsPath != "" {
		journal, err = eventsqlite.Open(cfg.EventsPath)
		if err != nil {
			return fmt.Errorf("open event journal: %w", err)
		}
		defer journal.Close()
		sink = journal
	}

	reg := service.New(kv, sink)

	if cfg.Init {
		collection := domain.CollectionConfig{
			Name:    cfg.Name,
			Symbol:  cfg.Symbol,
			BaseURI: cfg.BaseURI,
			RoyaltyDefault: domain.RoyaltyInfo{
				Recipient:   domain.Address(cfg.RoyaltyTo),
				BasisPoints: uint32(cfg.RoyaltyBps),
			},
		}
		if cfg.MaxSupply > 0 {
			max := cfg.MaxSupply
			collection.MaxSupply = &max
		}
		if err := reg.Initialize(ctx, domain.Address(cfg.Owner), collection); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		fmt.Fprintf(out, "collection %q initialized owner=%s\n", cfg.Name, cfg.Owner)
	}

	if cfg.Info {
		if err := printInfo(ctx, reg, out); err != nil {
			return err
		}
	}

	if cfg.ShowToken {
		if err := printToken(ctx, reg, cfg.TokenID, out); err != nil {
			return err
		}
	}

	if cfg.EventsLimit > 0 {
		if journal == nil {
			return fmt.Errorf("-events requires an event journal path")
		}
		if err := printEvents(ctx, journal, cfg.EventsLimit, out); err != nil {
			return err
		}
	}
	return nil
}

func printInfo(ctx context.Context, reg *service.Registry, out io.Writer) error {
	name, err := reg.Name(ctx)
	if err != nil {
		return fmt.Errorf("collection name: %w", err)
	}
	symbol, err := reg.Symbol(ctx)
	if err != nil {
		return fmt.Errorf("collection symbol: %w", err)
	}
	baseURI, err := reg.BaseURI(ctx)
	if err != nil {
		return fmt.Errorf("base uri: %w", err)
	}
	total, err := reg.TotalSupply(ctx)
	if err != nil {
		return fmt.Errorf("total supply: %w", err)
	}
	frozen, err := reg.MetadataFrozen(ctx)
	if err != nil {
		return fmt.Errorf("frozen flag: %w", err)
	}

	fmt.Fprintf(out, "name: %s\n", name)
	fmt.Fprintf(out, "symbol: %s\n", symbol)
	fmt.Fprintf(out, "base_uri: %s\n", baseURI)
	fmt.Fprintf(out, "total_supply: %d\n", total)
	fmt.Fprintf(out, "metadata_frozen: %t\n", frozen)
	return nil
}

func printToken(ctx context.Context, reg *service.Registry, id uint64, out io.Writer) error {
	meta, err := reg.TokenMetadata(ctx, id)
	if err != nil {
		return fmt.Errorf("token %d: %w", id, err)
	}

	fmt.Fprintf(out, "token: %d\n", meta.ID)
	fmt.Fprintf(out, "owner: %s\n", meta.Owner)
	if !meta.Approved.IsZero() {
		fmt.Fprintf(out, "approved: %s\n", meta.Approved)
	}
	fmt.Fprintf(out, "uri: %s\n", meta.MetadataURI)
	fmt.Fprintf(out, "creator: %s\n", meta.Creator)
	fmt.Fprintf(out, "created_at: %s\n", meta.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(out, "royalty: %s %dbps\n", meta.RoyaltyRecipient, meta.RoyaltyBasisPoints)
	for _, attr := range meta.Attributes {
		fmt.Fprintf(out, "attribute: %s=%s\n", attr.TraitType, attr.Value)
	}
	if meta.EditionNumber != nil && meta.TotalEditions != nil {
		fmt.Fprintf(out, "edition: %d/%d\n", *meta.EditionNumber, *meta.TotalEditions)
	}
	return nil
}

func printEvents(ctx context.Context, journal *eventsqlite.Store, limit int, out io.Writer) error {
	recent, err := journal.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("recent events: %w", err)
	}
	for _, evt := range recent {
		token := "-"
		if evt.TokenID != nil {
			token = fmt.Sprintf("%d", *evt.TokenID)
		}
		fmt.Fprintf(out, "%s type=%s actor=%s from=%s to=%s token=%s\n",
			evt.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
			evt.Type, evt.Actor, evt.From, evt.To, token)
	}
	return nil
}
