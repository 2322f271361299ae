package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/netctx/internal/config"
	"github.com/nao1215/netctx/internal/hostutil"
	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/probe"
	"github.com/nao1215/netctx/internal/resolver"
	"github.com/nao1215/netctx/internal/tor"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that launch URLs answer",
		Long: `Probe resolves every package and fetches each launch URL once, recording
the HTTP status, page title and latency.

Onion URLs are fetched through Tor. By default an embedded Tor daemon is
started, and only when at least one launch URL is an onion address; use
--external-tor to use an existing proxy instead. LAN URLs are fetched
directly and self-signed certificates are accepted.

Examples:
  # Probe from a LAN session
  netctx probe -c packages.yaml -l http://embassy.local

  # Probe onion URLs through Tor Browser's proxy
  netctx probe -c packages.yaml -l http://abc...xyz.onion --external-tor 127.0.0.1:9150`,
		Args: cobra.NoArgs,
		RunE: runProbeCmd,
	}

	addCatalogFlags(cmd)
	addReportFlags(cmd)

	// Tor connection flags
	cmd.Flags().StringP("external-tor", "e", "",
		"Use external Tor proxy at specified address (e.g., 127.0.0.1:9150)")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each probe request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent probes")

	return cmd
}

// buildProbeConfig creates a Config from the probe command flags.
func buildProbeConfig(cmd *cobra.Command) (*config.Config, error) {
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

	externalTor, err := cmd.Flags().GetString("external-tor")
	if err != nil {
		return nil, err
	}
	if externalTor != "" {
		cfg.UseExternalTor = true
		cfg.TorProxyAddress = externalTor
	}
	if cfg.TorStartupTimeout, err = cmd.Flags().GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildProbeConfig(cmd)
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

	ctx, cancel := signalContext(commandContext(cmd), logger)
	defer cancel()

	pkgs, err := loadPackages(ctx, cfg)
	if err != nil {
		return err
	}
	resolutions := resolver.New(classifier, resolver.WithLogger(logger)).ResolveAll(pkgs)

	opts := []probe.Option{
		probe.WithConcurrency(cfg.BatchSize),
		probe.WithTimeout(cfg.Timeout),
		probe.WithLogger(logger),
	}
	if needsTor(resolutions) {
		if !cfg.UseExternalTor {
			fmt.Fprintln(cmd.ErrOrStderr(), "Starting embedded Tor daemon (this may take 1-3 minutes)...")
		}
		client, release, err := tor.Connect(ctx, tor.ConnectOptions{
			UseExternal:    cfg.UseExternalTor,
			ProxyAddress:   cfg.TorProxyAddress,
			StartupTimeout: cfg.TorStartupTimeout,
			Timeout:        cfg.Timeout,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Tor: %w", err)
		}
		defer func() {
			if err := release(); err != nil {
				logger.Error("failed to stop Tor", "error", err)
			}
		}()
		opts = append(opts, probe.WithTorClient(client))
	}

	results, err := probe.New(opts...).ProbeAll(ctx, resolutions)
	if err != nil {
		return err
	}

	doc := newDocument(cfg, classifier.Facts())
	doc.Resolutions = resolutions
	doc.Probes = results
	return writeReport(cmd, cfg, doc)
}

// needsTor reports whether any launchable package opens on an onion address.
func needsTor(resolutions []resolver.Resolution) bool {
	for _, r := range resolutions {
		if r.Launchable && model.IsOnionHost(hostutil.HostOnly(r.LaunchURL)) {
			return true
		}
	}
	return false
}
