package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/catalog"
	"github.com/nao1215/netctx/internal/config"
	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
	"github.com/nao1215/netctx/internal/session"
)

// errWatchNeedsCatalog is returned when --watch is used without --catalog.
var errWatchNeedsCatalog = errors.New("--watch requires --catalog")

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve launch URLs for every package",
		Long: `Resolve computes, for each package in the catalog, whether it can be
launched from the current session and the URL that opens its interface.

Tor sessions get the package's onion address over http. Other sessions get
the LAN address over https when the UI interface supports LAN access, and
fall back to the onion address otherwise.

Examples:
  # Resolve a catalog file for a LAN session
  netctx resolve --catalog packages.yaml -l http://embassy.local

  # Resolve packages stored in the catalog database and record the result
  netctx resolve --record

  # Only Bitcoin packages, as Markdown
  netctx resolve -c packages.yaml --include 'bitcoin*' --markdown

  # Re-resolve whenever the catalog file changes
  netctx resolve -c packages.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: runResolveCmd,
	}

	addCatalogFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().Bool("record", false,
		"Store every resolution in the catalog database history")
	cmd.Flags().Bool("watch", false,
		"Re-resolve whenever the catalog file changes (requires --catalog)")
	cmd.Flags().Duration("debounce", config.DefaultWatchDebounce,
		"Quiet period before a changed catalog is reloaded")

	return cmd
}

// buildResolveConfig creates a Config from the resolve command flags.
func buildResolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := readCatalogFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if cfg.Record, err = cmd.Flags().GetBool("record"); err != nil {
		return nil, err
	}
	if cfg.Watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return nil, err
	}
	if cfg.WatchDebounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if cfg.Watch && cfg.CatalogFile == "" {
		return nil, errWatchNeedsCatalog
	}
	return cfg, nil
}

// runResolveCmd executes the resolve command.
func runResolveCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildResolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	facts := classifier.Facts()
	warnInsecureSession(cmd, cfg, facts)

	ctx, cancel := signalContext(commandContext(cmd), logger)
	defer cancel()

	r := &resolveRun{
		cmd:      cmd,
		cfg:      cfg,
		facts:    facts,
		resolver: resolver.New(classifier, resolver.WithLogger(logger)),
		logger:   logger,
	}
	if cfg.Record {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		r.store = store
	}

	pkgs, err := loadPackages(ctx, cfg)
	if err != nil {
		return err
	}
	if err := r.run(ctx, pkgs); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}
	return r.watch(ctx)
}

// resolveRun holds what one resolve invocation needs across reloads.
type resolveRun struct {
	cmd      *cobra.Command
	cfg      *config.Config
	facts    session.Facts
	resolver *resolver.Resolver
	store    *catalog.Store
	logger   *slog.Logger
}

// run resolves pkgs, records the results when enabled and writes the report.
func (r *resolveRun) run(ctx context.Context, pkgs []model.PackageRecord) error {
	resolutions := r.resolver.ResolveAll(pkgs)

	if r.store != nil {
		kind := string(r.facts.Kind)
		for _, res := range resolutions {
			if err := r.store.RecordResolution(ctx, kind, res); err != nil {
				r.logger.Error("failed to record resolution", "package", res.PackageID, "error", err)
			}
		}
	}

	doc := newDocument(r.cfg, r.facts)
	doc.Resolutions = resolutions
	return writeReport(r.cmd, r.cfg, doc)
}

// watch re-runs the resolution on every catalog change until ctx is done.
// A catalog that fails to load is logged and the previous report stands.
func (r *resolveRun) watch(ctx context.Context) error {
	filter, err := catalog.NewFilter(r.cfg.Include, r.cfg.Exclude)
	if err != nil {
		return err
	}

	w, err := catalog.NewWatcher(r.cfg.CatalogFile,
		func(pkgs []model.PackageRecord, err error) {
			if err != nil {
				r.logger.Error("failed to reload catalog", "path", r.cfg.CatalogFile, "error", err)
				return
			}
			if err := r.run(ctx, filter.Apply(pkgs)); err != nil {
				r.logger.Error("failed to write report", "error", err)
			}
		},
		catalog.WithDebounce(r.cfg.WatchDebounce),
		catalog.WithWatcherLogger(r.logger),
	)
	if err != nil {
		return err
	}

	r.logger.Info("watching catalog", "path", w.Path())
	return w.Run(ctx)
}
