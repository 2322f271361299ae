package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testCatalog has one launchable package, one without a UI and one installed
// package whose address table is missing.
const testCatalog = `packages:
  - id: bitcoind
    title: Bitcoin Core
    state: installed
    status: running
    interfaces:
      main: { ui: true, tor-config: true, lan-config: true }
    interface-addresses:
      main:
        tor-address: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaam2dqd.onion
        lan-address: bitcoind.embassy.local
  - id: electrs
    state: installed
    status: running
    interfaces:
      rpc: { tor-config: true }
    interface-addresses:
      rpc: { tor-address: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaam2dqd.onion }
  - id: broken
    state: installed
    status: running
    interfaces:
      main: { ui: true, lan-config: true }
`

// writeFile writes content to name inside a new temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// emptyWorkspace keeps tests independent of a .netctx in the home directory.
func emptyWorkspace(t *testing.T) string {
	t.Helper()
	return writeFile(t, ".netctx", "useMocks: false\n")
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
