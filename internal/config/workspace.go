package config

import (
	"fmt"

	"github.com/nao1215/netctx/internal/session"
)

// Workspace is the static workspace configuration of a dashboard build.
// Identifier fields are exposed verbatim; nothing in netctx interprets them.
type Workspace struct {
	// PackageArch is the architecture of the package the dashboard ships in.
	PackageArch string `yaml:"packageArch,omitempty"`
	// OSArch is the architecture of the host operating system.
	OSArch string `yaml:"osArch,omitempty"`
	// GitHash is the source revision the dashboard was built from.
	GitHash string `yaml:"gitHash,omitempty"`
	// UseMocks enables the mock override described by UI.Mocks.
	UseMocks bool `yaml:"useMocks"`
	// UI holds the dashboard settings.
	UI UIConfig `yaml:"ui"`
}

// UIConfig holds the dashboard settings of a workspace.
type UIConfig struct {
	// API is the base URL of the backend API.
	API APIConfig `yaml:"api,omitempty"`
	// Marketplace is the package marketplace endpoint.
	Marketplace MarketplaceConfig `yaml:"marketplace,omitempty"`
	// Mocks configures the development override.
	Mocks MocksConfig `yaml:"mocks"`
}

// APIConfig locates the backend API.
type APIConfig struct {
	URL     string `yaml:"url,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// MarketplaceConfig locates the package marketplace.
type MarketplaceConfig struct {
	URL string `yaml:"url,omitempty"`
}

// MocksConfig is the development override section.
type MocksConfig struct {
	// MaskAs is tor, local, localhost or none.
	MaskAs string `yaml:"maskAs"`
	// MaskAsHTTPS answers every transport-security question.
	MaskAsHTTPS bool `yaml:"maskAsHttps"`
	// SkipStartupAlerts suppresses the alerts shown on dashboard start.
	SkipStartupAlerts bool `yaml:"skipStartupAlerts"`
}

// Validate checks that the mock section names a known session kind.
func (w *Workspace) Validate() error {
	if _, err := session.ParseMaskAs(w.UI.Mocks.MaskAs); err != nil {
		return fmt.Errorf("ui.mocks.maskAs: %w", err)
	}
	return nil
}

// Override converts the mock section into a session override.
// The override is enabled only when UseMocks is set. An unparsable maskAs
// value falls back to none; call Validate to reject it instead.
func (w *Workspace) Override() session.MockOverride {
	if w == nil {
		return session.MockOverride{}
	}
	mask, err := session.ParseMaskAs(w.UI.Mocks.MaskAs)
	if err != nil {
		mask = session.MaskAsNone
	}
	return session.MockOverride{
		Enabled:     w.UseMocks,
		MaskAs:      mask,
		MaskAsHTTPS: w.UI.Mocks.MaskAsHTTPS,
	}
}

// SkipStartupAlerts reports whether startup alerts are suppressed.
// It is only honored while mocks are in use.
func (w *Workspace) SkipStartupAlerts() bool {
	return w != nil && w.UseMocks && w.UI.Mocks.SkipStartupAlerts
}
