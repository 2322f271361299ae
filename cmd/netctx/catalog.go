package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/catalog"
	"github.com/nao1215/netctx/internal/config"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the catalog database",
		Long: `Catalog manages the SQLite database that stores packages and the
history of their resolved launch URLs.

The database lives in the XDG data directory unless --db is given.`,
	}
	cmd.PersistentFlags().String("db", "",
		"Catalog database directory (default: XDG data directory)")

	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogHistoryCmd())
	return cmd
}

// catalogStore opens the database named by the --db flag.
func catalogStore(cmd *cobra.Command) (*catalog.Store, error) {
	cfg := config.NewConfig()
	cfg.DBDir = stringFlag(cmd, "db", "")
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	return openStore(cfg)
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Replace the stored packages with a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			store, err := catalogStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ImportCatalog(commandContext(cmd), pkgs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d package(s) into %s\n", len(pkgs), store.Path())
			return nil
		},
	}
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := catalogStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			pkgs, err := store.ListPackages(commandContext(cmd))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATE\tSTATUS\tINTERFACES\tTITLE")
			for _, p := range pkgs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.State, p.Status, len(p.Interfaces), p.Title)
			}
			return tw.Flush()
		},
	}
}

func newCatalogHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <package-id>",
		Short: "Show recorded launch URLs of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			store, err := catalogStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.ResolutionHistory(commandContext(cmd), args[0], limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No history for %s\n", args[0])
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSESSION\tLAUNCHABLE\tURL")
			for _, e := range entries {
				url := e.LaunchURL
				if e.Error != "" {
					url = "error: " + e.Error
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Session, e.Launchable, orNone(url))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries (0 for all)")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
