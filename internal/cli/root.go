// Package cli holds the storefront command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/diecastgarage/storefront/internal/pkg/config"
	"github.com/diecastgarage/storefront/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	Pretty   bool

	// Config overrides environment loading (for testing).
	Config *config.Config
}

// NewRootCommand creates the root command for the storefront binary.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Diecast Garage storefront",
		Long:  "Server-side synchronization layer for the die-cast model storefront: catalog, carts, favorites and back-office.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := opts.config()
			level := cfg.LogLevel
			if opts.LogLevel != "" {
				level = opts.LogLevel
			}
			logger.Init(logger.Options{
				Level:  level,
				Pretty: opts.Pretty || !cfg.IsProduction(),
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (trace|debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "human-friendly console logs")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		o.Config = config.Load()
	}
	return o.Config
}
