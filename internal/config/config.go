package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/netctx/internal/session"
)

// Default configuration values.
const (
	// DefaultLocation is the session location used when --location is not given.
	// A dashboard opened on the device itself is the most common case.
	DefaultLocation = "http://localhost"

	// DefaultSecureContext lets the secure-context signal follow the location.
	DefaultSecureContext = "auto"

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution overhead.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTimeout bounds a single probe request. Onion services answer
	// slowly, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultBatchSize is the number of packages probed concurrently.
	DefaultBatchSize = 5

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultWatchDebounce coalesces bursts of catalog file events.
	DefaultWatchDebounce = 500 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "netctx"
)

// Config holds the runtime options of one netctx invocation.
// It is populated from CLI flags and passed down explicitly; nothing in the
// resolver reads it from global state.
type Config struct {
	// Location is the browser location of the session being classified,
	// e.g. "http://embassy.local" or "http://abc...xyz.onion".
	Location string

	// SecureContext is "auto", "true" or "false". "auto" derives the
	// browser secure-context signal from the location.
	SecureContext string

	// WorkspacePath is an explicit path to the workspace file.
	// When empty, FindWorkspaceFile searches the default locations.
	WorkspacePath string

	// Workspace is the loaded workspace file, or nil when none was found.
	Workspace *Workspace

	// CatalogFile is the YAML package catalog to read.
	CatalogFile string

	// DBDir is the directory holding the SQLite catalog database.
	// When CatalogFile is empty, packages are read from the database.
	DBDir string

	// Include and Exclude are glob patterns over package IDs.
	Include []string
	Exclude []string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport and MarkdownReport select the report format. They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the output file path for the report. Empty means stdout.
	ReportFile string

	// Record stores every resolved launch URL in the database history.
	Record bool

	// Watch re-resolves the catalog whenever the file changes.
	Watch bool

	// WatchDebounce is the quiet period before a changed catalog is reloaded.
	WatchDebounce time.Duration

	// TorProxyAddress is the Tor SOCKS5 proxy in "host:port" format.
	TorProxyAddress string

	// UseExternalTor disables the embedded Tor daemon and uses TorProxyAddress.
	UseExternalTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded daemon.
	TorStartupTimeout time.Duration

	// Timeout is the per-request probe timeout.
	Timeout time.Duration

	// BatchSize is the number of concurrent probes.
	BatchSize int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Location:          DefaultLocation,
		SecureContext:     DefaultSecureContext,
		TorProxyAddress:   DefaultTorProxyAddress,
		Timeout:           DefaultTimeout,
		BatchSize:         DefaultBatchSize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		WatchDebounce:     DefaultWatchDebounce,
	}
}

// XDGDataDir returns the XDG data directory for netctx.
// On Linux: ~/.local/share/netctx
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for netctx.
// On Linux: ~/.config/netctx
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Environment builds the static session environment described by Location
// and SecureContext.
func (c *Config) Environment() (session.StaticEnvironment, error) {
	loc, err := session.ParseLocation(c.Location)
	if err != nil {
		return session.StaticEnvironment{}, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	switch strings.ToLower(strings.TrimSpace(c.SecureContext)) {
	case "", DefaultSecureContext:
		return session.NewStaticEnvironment(loc), nil
	case "true":
		return session.NewStaticEnvironmentWithSecurity(loc, true), nil
	case "false":
		return session.NewStaticEnvironmentWithSecurity(loc, false), nil
	default:
		return session.StaticEnvironment{}, fmt.Errorf("%w: %q", ErrInvalidSecureContext, c.SecureContext)
	}
}

// Override returns the mock override of the loaded workspace, or the
// disabled override when no workspace is loaded.
func (c *Config) Override() session.MockOverride {
	if c.Workspace == nil {
		return session.MockOverride{}
	}
	return c.Workspace.Override()
}

// ValidateSession checks only the options needed to classify a session.
func (c *Config) ValidateSession() error {
	_, err := c.Environment()
	return err
}

// Validate checks every option used by the catalog commands.
// It returns the first problem found.
func (c *Config) Validate() error {
	if err := c.ValidateSession(); err != nil {
		return err
	}
	if c.CatalogFile == "" && c.DBDir == "" {
		return ErrNoCatalog
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.WatchDebounce < 0 {
		return ErrInvalidWatchDebounce
	}
	return nil
}
