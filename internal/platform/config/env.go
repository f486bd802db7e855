// Package config loads CLI configuration from environment variables with
// optional flag overrides.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Overlay applies flag values on top of an env-parsed config. Only flags
// the caller actually set run their applier.
func Overlay(fs *flag.FlagSet, appliers map[string]func()) {
	fs.Visit(func(f *flag.Flag) {
		if apply, ok := appliers[f.Name]; ok {
			apply()
		}
	})
}
