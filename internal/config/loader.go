package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultWorkspaceFile is the default workspace file name.
const DefaultWorkspaceFile = ".netctx"

// ErrConfigNotFound is returned when the workspace file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadWorkspace loads and validates a workspace file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadWorkspace(path string) (*Workspace, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ws, nil
}

// FindWorkspaceFile searches for the workspace file in the following order:
// 1. If path is specified, use it directly
// 2. Look for .netctx in the current directory
// 3. Look for .netctx in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the workspace file if found, or empty string if not found.
func FindWorkspaceFile(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultWorkspaceFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultWorkspaceFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
