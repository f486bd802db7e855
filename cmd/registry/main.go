// Package main provides maintenance utilities for the asset registry: it
// initializes collections and inspects the ledger and event journal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	cmdregistry "github.com/nftopia/asset-registry/internal/cmd/registry"
	"github.com/nftopia/asset-registry/internal/platform/config"
)

func main() {
	fs := flag.NewFlagSet("registry", flag.ExitOnError)
	cfg, err := cmdregistry.ParseConfig(fs, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := cmdregistry.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
