package main

import (
	"strings"
	"testing"
)

func TestCatalogCmd(t *testing.T) {
	t.Parallel()

	t.Run("import then list", func(t *testing.T) {
		t.Parallel()

		catalogPath := writeFile(t, "catalog.yaml", testCatalog)
		dbDir := t.TempDir()

		stdout, _, err := runCLI(t, "catalog", "import", catalogPath, "--db", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Imported 3 package(s)") {
			t.Errorf("unexpected import output %q", stdout)
		}

		stdout, _, err = runCLI(t, "catalog", "list", "--db", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header and 3 rows, got:\n%s", stdout)
		}
		for i, id := range []string{"bitcoind", "electrs", "broken"} {
			if !strings.HasPrefix(lines[i+1], id) {
				t.Errorf("row %d: expected %s first, got %q", i, id, lines[i+1])
			}
		}
	})

	t.Run("import rejects invalid catalog", func(t *testing.T) {
		t.Parallel()

		bad := writeFile(t, "catalog.yaml", "packages:\n  - id: x\n    state: flying\n    status: running\n")
		if _, _, err := runCLI(t, "catalog", "import", bad, "--db", t.TempDir()); err == nil {
			t.Error("expected error for invalid state")
		}
	})

	t.Run("history of unknown package", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runCLI(t, "catalog", "history", "nope", "--db", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No history for nope") {
			t.Errorf("unexpected output %q", stdout)
		}
	})

	t.Run("import requires an argument", func(t *testing.T) {
		t.Parallel()

		if _, _, err := runCLI(t, "catalog", "import", "--db", t.TempDir()); err == nil {
			t.Error("expected argument error")
		}
	})
}
