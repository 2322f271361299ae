package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/config"
)

// NewRootCmd creates the root command for netctx.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netctx",
		Short: "Resolve package launch addresses for a dashboard session",
		Long: `netctx classifies the network a dashboard session arrived through
(Tor onion service, .local LAN name, localhost) and resolves, for each
installed package, the address and URL that open its user interface from
that session.

Package data comes from a YAML catalog (--catalog) or from the SQLite
catalog database managed with "netctx catalog".`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("workspace", "w", "",
		"Workspace file path (default: .netctx in current or home directory)")
	cmd.PersistentFlags().StringP("location", "l", config.DefaultLocation,
		"Browser location of the session, e.g. http://embassy.local")
	cmd.PersistentFlags().String("secure-context", config.DefaultSecureContext,
		"Browser secure-context signal: auto, true or false")
	cmd.PersistentFlags().String("log-format", logFormatText,
		"Log output format: text or json")

	// Add subcommands
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewLintCmd())
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
