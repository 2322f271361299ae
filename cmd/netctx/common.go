package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/catalog"
	"github.com/nao1215/netctx/internal/config"
	netlog "github.com/nao1215/netctx/internal/log"
	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/report"
	"github.com/nao1215/netctx/internal/session"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// errInvalidLogFormat is returned for an unknown --log-format value.
var errInvalidLogFormat = errors.New("invalid log format: expected text or json")

// stringFlag reads a local or inherited string flag, falling back to def when
// the command is run without its parent.
func stringFlag(cmd *cobra.Command, name, def string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return def
}

// boolFlag reads a local or inherited bool flag.
func boolFlag(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Value.String() == "true"
}

// baseConfig builds the session part of the configuration shared by every
// command: verbosity, workspace, location and secure-context.
func baseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = boolFlag(cmd, "verbose")
	cfg.Location = stringFlag(cmd, "location", config.DefaultLocation)
	cfg.SecureContext = stringFlag(cmd, "secure-context", config.DefaultSecureContext)
	cfg.WorkspacePath = stringFlag(cmd, "workspace", "")

	// An explicitly named workspace must exist; the default locations are optional.
	path := config.FindWorkspaceFile(cfg.WorkspacePath)
	switch {
	case path != "":
		ws, err := config.LoadWorkspace(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load workspace %s: %w", path, err)
		}
		cfg.Workspace = ws
	case cfg.WorkspacePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.WorkspacePath)
	}

	if err := cfg.ValidateSession(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// addCatalogFlags registers the flags that select and filter package data.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("catalog", "c", "",
		"YAML package catalog (default: read packages from the catalog database)")
	cmd.Flags().String("db", "",
		"Catalog database directory (default: XDG data directory)")
	cmd.Flags().StringSlice("include", nil,
		"Only packages whose ID matches one of these glob patterns")
	cmd.Flags().StringSlice("exclude", nil,
		"Skip packages whose ID matches one of these glob patterns")
}

// readCatalogFlags copies the catalog flags into cfg.
func readCatalogFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.CatalogFile, err = cmd.Flags().GetString("catalog"); err != nil {
		return err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db"); err != nil {
		return err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}
	if cfg.Include, err = cmd.Flags().GetStringSlice("include"); err != nil {
		return err
	}
	if cfg.Exclude, err = cmd.Flags().GetStringSlice("exclude"); err != nil {
		return err
	}
	return nil
}

// addReportFlags registers the report format and destination flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
}

// readReportFlags copies the report flags into cfg.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}
	return nil
}

// setupLogger creates the secure structured logger for a command.
// Logs go to stderr so that reports on stdout stay machine-readable.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	w := cmd.ErrOrStderr()
	switch stringFlag(cmd, "log-format", logFormatText) {
	case logFormatText:
		return netlog.NewSecureLogger(w, cfg.Verbose), nil
	case logFormatJSON:
		return netlog.NewSecureJSONLogger(w, cfg.Verbose), nil
	default:
		return nil, errInvalidLogFormat
	}
}

// newClassifier builds the session classifier described by cfg.
func newClassifier(cfg *config.Config) (*session.Classifier, error) {
	env, err := cfg.Environment()
	if err != nil {
		return nil, err
	}
	return session.NewClassifier(env, cfg.Override()), nil
}

// warnInsecureSession prints the plaintext-session alert to stderr unless the
// workspace suppresses startup alerts.
func warnInsecureSession(cmd *cobra.Command, cfg *config.Config, facts session.Facts) {
	if cfg.Workspace.SkipStartupAlerts() {
		return
	}
	if warning := facts.Warning(); warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}
}

// openStore opens the catalog database in cfg.DBDir, creating it if needed.
func openStore(cfg *config.Config) (*catalog.Store, error) {
	store, err := catalog.Open(cfg.DBDir, catalog.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	return store, nil
}

// loadPackages reads the packages selected by cfg, from the catalog file when
// one is given and from the database otherwise, and applies the ID filters.
func loadPackages(ctx context.Context, cfg *config.Config) ([]model.PackageRecord, error) {
	filter, err := catalog.NewFilter(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var pkgs []model.PackageRecord
	if cfg.CatalogFile != "" {
		pkgs, err = catalog.LoadFile(cfg.CatalogFile)
	} else {
		var store *catalog.Store
		store, err = openStore(cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		pkgs, err = store.ListPackages(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter.Apply(pkgs), nil
}

// newDocument starts a report for the session described by facts.
func newDocument(cfg *config.Config, facts session.Facts) *report.Document {
	doc := report.NewDocument(getVersion())
	if ws := cfg.Workspace; ws != nil {
		info := report.WorkspaceInfo{
			PackageArch:    ws.PackageArch,
			OSArch:         ws.OSArch,
			GitHash:        ws.GitHash,
			APIURL:         ws.UI.API.URL,
			APIVersion:     ws.UI.API.Version,
			MarketplaceURL: ws.UI.Marketplace.URL,
		}
		if !info.IsZero() {
			doc.Workspace = &info
		}
	}
	doc.Session = &facts
	return doc
}

// writeReport renders doc in the format selected by cfg, to cfg.ReportFile or
// the command's stdout.
func writeReport(cmd *cobra.Command, cfg *config.Config, doc *report.Document) error {
	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry device addresses, so only the owner may read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
	_, err := w.Write(doc)
	return err
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// commandContext returns cmd's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
