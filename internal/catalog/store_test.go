package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePackages(t *testing.T) []model.PackageRecord {
	t.Helper()

	pkgs, err := Decode(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("failed to decode sample catalog: %v", err)
	}
	return pkgs
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DatabaseFile)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if s.Path() != filepath.Join(dbDir, DatabaseFile) {
			t.Errorf("unexpected path %q", s.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if err == nil || !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		_ = s.Close()

		s, err = Open(dir, Options{})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		_ = s.Close()
	})
}

func TestStore_SaveAndGetPackage(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := t.Context()
	pkgs := samplePackages(t)

	for i := range pkgs {
		if err := s.SavePackage(ctx, &pkgs[i]); err != nil {
			t.Fatalf("SavePackage(%s) failed: %v", pkgs[i].ID, err)
		}
	}

	t.Run("round trip keeps interface order and table", func(t *testing.T) {
		got, err := s.GetPackage(ctx, "bitcoind")
		if err != nil {
			t.Fatalf("GetPackage failed: %v", err)
		}
		if got.Interfaces[0].Key != "rpc" || got.Interfaces[1].Key != "main" {
			t.Errorf("interface order lost: %+v", got.Interfaces)
		}
		addrs, ok := got.Installed.Lookup("main")
		if !ok || addrs.Local != "bitcoind.embassy.local" {
			t.Errorf("unexpected addresses: %+v", addrs)
		}
		entries := got.Installed.Entries()
		if entries[0].Key != "main" || entries[1].Key != "rpc" {
			t.Errorf("table order lost: %+v", entries)
		}
	})

	t.Run("nil table stays nil", func(t *testing.T) {
		got, err := s.GetPackage(ctx, "broken")
		if err != nil {
			t.Fatalf("GetPackage failed: %v", err)
		}
		if got.Installed != nil {
			t.Error("expected nil address table")
		}
	})

	t.Run("update keeps position", func(t *testing.T) {
		btc := pkgs[0]
		btc.Status = model.MainStatusStopped
		if err := s.SavePackage(ctx, &btc); err != nil {
			t.Fatalf("SavePackage failed: %v", err)
		}
		list, err := s.ListPackages(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if list[0].ID != "bitcoind" || list[0].Status != model.MainStatusStopped {
			t.Errorf("unexpected first package: %+v", list[0])
		}
	})

	t.Run("unknown package", func(t *testing.T) {
		if _, err := s.GetPackage(ctx, "nope"); !errors.Is(err, ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound, got %v", err)
		}
	})

	t.Run("invalid package is rejected", func(t *testing.T) {
		if err := s.SavePackage(ctx, &model.PackageRecord{}); !errors.Is(err, model.ErrEmptyPackageID) {
			t.Errorf("expected ErrEmptyPackageID, got %v", err)
		}
	})
}

func TestStore_ImportAndList(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := t.Context()

	if err := s.SavePackage(ctx, &model.PackageRecord{ID: "stale", State: model.PackageStateInstalled, Status: model.MainStatusRunning}); err != nil {
		t.Fatal(err)
	}

	pkgs := samplePackages(t)
	if err := s.ImportCatalog(ctx, pkgs); err != nil {
		t.Fatalf("ImportCatalog failed: %v", err)
	}

	list, err := s.ListPackages(ctx)
	if err != nil {
		t.Fatalf("ListPackages failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 packages, got %d", len(list))
	}
	for i, want := range []string{"bitcoind", "lnd", "broken"} {
		if list[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, list[i].ID)
		}
	}

	t.Run("invalid import leaves store untouched", func(t *testing.T) {
		bad := append(samplePackages(t), model.PackageRecord{ID: "x", State: "weird", Status: model.MainStatusRunning})
		if err := s.ImportCatalog(ctx, bad); !errors.Is(err, model.ErrInvalidPackageState) {
			t.Errorf("expected ErrInvalidPackageState, got %v", err)
		}
		list, err := s.ListPackages(ctx)
		if err != nil || len(list) != 3 {
			t.Errorf("expected store to keep 3 packages, got %d (%v)", len(list), err)
		}
	})
}

func TestStore_History(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := t.Context()
	pkgs := samplePackages(t)
	if err := s.ImportCatalog(ctx, pkgs); err != nil {
		t.Fatal(err)
	}

	records := []resolver.Resolution{
		{PackageID: "bitcoind", Launchable: true, LaunchURL: "https://bitcoind.embassy.local"},
		{PackageID: "bitcoind", Launchable: true, LaunchURL: "http://abc123.onion"},
		{PackageID: "broken", Error: "missing address table"},
	}
	sessions := []string{"lan", "tor", "lan"}
	for i, r := range records {
		if err := s.RecordResolution(ctx, sessions[i], r); err != nil {
			t.Fatalf("RecordResolution failed: %v", err)
		}
	}

	history, err := s.ResolutionHistory(ctx, "bitcoind", 0)
	if err != nil {
		t.Fatalf("ResolutionHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].LaunchURL != "http://abc123.onion" || history[0].Session != "tor" {
		t.Errorf("expected newest entry first, got %+v", history[0])
	}
	if !history[1].Launchable || history[1].Timestamp.IsZero() {
		t.Errorf("unexpected entry: %+v", history[1])
	}

	limited, err := s.ResolutionHistory(ctx, "bitcoind", 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("expected 1 entry with limit, got %d (%v)", len(limited), err)
	}

	broken, err := s.ResolutionHistory(ctx, "broken", 0)
	if err != nil || len(broken) != 1 || broken[0].Error == "" || broken[0].Launchable {
		t.Errorf("unexpected broken history: %+v (%v)", broken, err)
	}

	t.Run("delete removes package and history", func(t *testing.T) {
		if err := s.DeletePackage(ctx, "bitcoind"); err != nil {
			t.Fatalf("DeletePackage failed: %v", err)
		}
		if _, err := s.GetPackage(ctx, "bitcoind"); !errors.Is(err, ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound, got %v", err)
		}
		history, err := s.ResolutionHistory(ctx, "bitcoind", 0)
		if err != nil || len(history) != 0 {
			t.Errorf("expected empty history, got %d (%v)", len(history), err)
		}
		if err := s.DeletePackage(ctx, "bitcoind"); !errors.Is(err, ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound on second delete, got %v", err)
		}
	})
}
