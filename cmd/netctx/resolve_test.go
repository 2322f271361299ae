package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/netctx/internal/config"
)

const testOnion = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaam2dqd.onion"

// resolveOutput is the part of a JSON report resolve produces.
type resolveOutput struct {
	Resolutions []struct {
		PackageID  string `json:"packageId"`
		Launchable bool   `json:"launchable"`
		LaunchURL  string `json:"launchUrl"`
		Error      string `json:"error"`
	} `json:"resolutions"`
	Summary struct {
		Packages   int `json:"packages"`
		Launchable int `json:"launchable"`
		Failed     int `json:"failed"`
	} `json:"summary"`
}

func decodeResolve(t *testing.T, stdout string) resolveOutput {
	t.Helper()

	var out resolveOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	return out
}

func TestResolveCmd(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)

	tests := []struct {
		name     string
		location string
		wantURL  string
	}{
		{"lan session uses lan address over https", "http://embassy.local", "https://bitcoind.embassy.local"},
		{"tor session uses onion over http", "http://" + testOnion, "http://" + testOnion},
		{"localhost uses lan address", "http://localhost", "https://bitcoind.embassy.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := runCLI(t, "resolve", "--json",
				"-w", emptyWorkspace(t), "-c", catalogPath, "-l", tt.location)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			out := decodeResolve(t, stdout)
			if len(out.Resolutions) != 3 {
				t.Fatalf("expected 3 resolutions, got %d", len(out.Resolutions))
			}
			btc := out.Resolutions[0]
			if !btc.Launchable || btc.LaunchURL != tt.wantURL {
				t.Errorf("expected launchable %q, got %+v", tt.wantURL, btc)
			}
			if electrs := out.Resolutions[1]; electrs.Launchable || electrs.LaunchURL != "" {
				t.Errorf("expected electrs without launch URL, got %+v", electrs)
			}
			if broken := out.Resolutions[2]; !strings.Contains(broken.Error, "no interface address table") {
				t.Errorf("expected missing table error, got %+v", broken)
			}
			if out.Summary.Launchable != 1 || out.Summary.Failed != 1 {
				t.Errorf("unexpected summary %+v", out.Summary)
			}
		})
	}
}

func TestResolveCmd_Filters(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)
	stdout, _, err := runCLI(t, "resolve", "--json", "-w", emptyWorkspace(t),
		"-c", catalogPath, "--include", "b*", "--exclude", "broken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := decodeResolve(t, stdout)
	if len(out.Resolutions) != 1 || out.Resolutions[0].PackageID != "bitcoind" {
		t.Errorf("expected only bitcoind, got %+v", out.Resolutions)
	}
}

func TestResolveCmd_RecordAndHistory(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)
	dbDir := t.TempDir()

	for range 2 {
		if _, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "-c", catalogPath,
			"-l", "http://embassy.local", "--record", "--db", dbDir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	stdout, _, err := runCLI(t, "catalog", "history", "bitcoind", "--db", dbDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(stdout, "https://bitcoind.embassy.local") != 2 {
		t.Errorf("expected two recorded URLs, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "lan") {
		t.Errorf("expected session kind in history, got:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, "catalog", "history", "broken", "--db", dbDir, "-n", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(stdout, "error:") != 1 {
		t.Errorf("expected one error entry, got:\n%s", stdout)
	}
}

func TestResolveCmd_FromDatabase(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)
	dbDir := t.TempDir()

	if _, _, err := runCLI(t, "catalog", "import", catalogPath, "--db", dbDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stdout, _, err := runCLI(t, "resolve", "--json", "-w", emptyWorkspace(t), "--db", dbDir,
		"-l", "http://embassy.local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := decodeResolve(t, stdout)
	if len(out.Resolutions) != 3 || out.Resolutions[0].LaunchURL != "https://bitcoind.embassy.local" {
		t.Errorf("unexpected resolutions from database: %+v", out.Resolutions)
	}
}

func TestResolveCmd_Errors(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)

	t.Run("watch requires catalog", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "--watch", "--db", t.TempDir())
		if !errors.Is(err, errWatchNeedsCatalog) {
			t.Errorf("expected errWatchNeedsCatalog, got %v", err)
		}
	})

	t.Run("json and markdown conflict", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "-c", catalogPath, "--json", "--markdown")
		if err == nil {
			t.Error("expected error for conflicting formats")
		}
	})

	t.Run("negative debounce", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "-c", catalogPath, "--debounce=-1s")
		if !errors.Is(err, config.ErrInvalidWatchDebounce) {
			t.Errorf("expected ErrInvalidWatchDebounce, got %v", err)
		}
	})

	t.Run("missing catalog file", func(t *testing.T) {
		t.Parallel()

		_, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "-c", "/nonexistent/catalog.yaml")
		if err == nil {
			t.Error("expected error for missing catalog")
		}
	})
}

func TestResolveCmd_OutputFile(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)
	outPath := filepath.Join(t.TempDir(), "reports", "resolve.md")

	stdout, _, err := runCLI(t, "resolve", "-w", emptyWorkspace(t), "-c", catalogPath,
		"--markdown", "-o", outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(content), "## Packages") {
		t.Errorf("expected markdown report, got:\n%s", content)
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, buf.String())
}

func TestResolveCmd_Watch(t *testing.T) {
	t.Parallel()

	catalogPath := writeFile(t, "catalog.yaml", testCatalog)

	var stdout, stderr syncBuffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"resolve", "-w", emptyWorkspace(t), "-c", catalogPath,
		"-l", "http://embassy.local", "--watch", "--debounce", "100ms"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFor(t, &stdout, "https://bitcoind.embassy.local")
	// Give the watcher time to register before changing the file.
	time.Sleep(200 * time.Millisecond)

	updated := testCatalog + `  - id: mempool
    state: installed
    status: running
    interfaces:
      main: { ui: true, lan-config: true }
    interface-addresses:
      main: { lan-address: mempool.embassy.local }
`
	if err := os.WriteFile(catalogPath, []byte(updated), 0600); err != nil {
		t.Fatalf("failed to update catalog: %v", err)
	}
	waitFor(t, &stdout, "https://mempool.embassy.local")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("resolve --watch did not stop after cancel")
	}
}
