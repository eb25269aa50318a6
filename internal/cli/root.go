// Package cli implements the ramadanctl developer/operator CLI: inspect
// the persisted local state, print derived aggregates, and run a manual
// sync against the remote API.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string
	Database   string
}

// NewRootCommand creates the root command for ramadanctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ramadanctl",
		Short: "Inspect and sync the local Ramadan tracking state",
		Long: `ramadanctl operates on the local offline-first state database:
dump the persisted snapshot, print star totals and constellation
thresholds, and run a manual pull/drain against the remote API.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to local database (overrides config)")

	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.Database != "" {
		cfg.DatabasePath = opts.Database
	}
	return cfg, nil
}

// newLogger builds the CLI logger: production JSON by default,
// development output with --verbose.
func newLogger(opts *RootOptions) (*zap.Logger, error) {
	if opts.Verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
