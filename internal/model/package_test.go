package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePackageState(t *testing.T) {
	t.Parallel()

	got, err := ParsePackageState(" Installed ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PackageStateInstalled {
		t.Errorf("ParsePackageState() = %q, expected %q", got, PackageStateInstalled)
	}

	if _, err := ParsePackageState("exploded"); !errors.Is(err, ErrInvalidPackageState) {
		t.Errorf("expected ErrInvalidPackageState, got %v", err)
	}
}

func TestParseMainStatus(t *testing.T) {
	t.Parallel()

	got, err := ParseMainStatus("backing-up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != MainStatusBackingUp {
		t.Errorf("ParseMainStatus() = %q, expected %q", got, MainStatusBackingUp)
	}

	if _, err := ParseMainStatus(""); !errors.Is(err, ErrInvalidMainStatus) {
		t.Errorf("expected ErrInvalidMainStatus, got %v", err)
	}
}

func TestNewInstalledAddressTable(t *testing.T) {
	t.Parallel()

	t.Run("keeps order and answers lookups", func(t *testing.T) {
		t.Parallel()

		table, err := NewInstalledAddressTable(
			AddressEntry{Key: "rpc", Addresses: InterfaceAddresses{Anonymity: "rpc.onion"}},
			AddressEntry{Key: "main", Addresses: InterfaceAddresses{Local: "main.local"}},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if table.Len() != 2 {
			t.Errorf("Len() = %d, expected 2", table.Len())
		}
		entries := table.Entries()
		if entries[0].Key != "rpc" || entries[1].Key != "main" {
			t.Errorf("Entries() order = %v", entries)
		}

		got, ok := table.Lookup("main")
		if !ok || got.Local != "main.local" {
			t.Errorf("Lookup(main) = %+v, %v", got, ok)
		}
		if _, ok := table.Lookup("missing"); ok {
			t.Error("expected Lookup(missing) to report absence")
		}
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewInstalledAddressTable(AddressEntry{Key: ""})
		if !errors.Is(err, ErrEmptyInterfaceKey) {
			t.Errorf("expected ErrEmptyInterfaceKey, got %v", err)
		}
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewInstalledAddressTable(AddressEntry{Key: "main"}, AddressEntry{Key: "main"})
		if !errors.Is(err, ErrDuplicateInterfaceKey) {
			t.Errorf("expected ErrDuplicateInterfaceKey, got %v", err)
		}
	})

	t.Run("nil table is empty", func(t *testing.T) {
		t.Parallel()
		var table *InstalledAddressTable
		if table.Len() != 0 {
			t.Error("expected nil table to have length 0")
		}
		if _, ok := table.Lookup("main"); ok {
			t.Error("expected nil table lookup to report absence")
		}
	})
}

func TestPackageRecord_JSON(t *testing.T) {
	t.Parallel()

	in := PackageRecord{
		ID:     "bitcoind",
		State:  PackageStateInstalled,
		Status: MainStatusRunning,
		Interfaces: []InterfaceDefinition{
			{Key: "main", UI: true, SupportsAnonymity: true, SupportsLocal: true},
		},
		Installed: MustNewInstalledAddressTable(
			AddressEntry{Key: "main", Addresses: InterfaceAddresses{Anonymity: "abc.onion", Local: "btc.local"}},
		),
	}

	data, err := json.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out PackageRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	got, ok := out.Installed.Lookup("main")
	if !ok || got.Anonymity != "abc.onion" || got.Local != "btc.local" {
		t.Errorf("decoded table lookup = %+v, %v", got, ok)
	}
	if out.State != PackageStateInstalled || out.Status != MainStatusRunning {
		t.Errorf("decoded state/status = %q/%q", out.State, out.Status)
	}
}

func TestPackageRecord_Validate(t *testing.T) {
	t.Parallel()

	valid := func() PackageRecord {
		return PackageRecord{
			ID:     "bitcoind",
			State:  PackageStateInstalled,
			Status: MainStatusRunning,
			Interfaces: []InterfaceDefinition{
				{Key: "main", UI: true},
				{Key: "rpc"},
			},
		}
	}

	t.Run("installed without table is structurally valid", func(t *testing.T) {
		t.Parallel()
		p := valid()
		if err := p.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*PackageRecord)
		wantErr error
	}{
		{"empty id", func(p *PackageRecord) { p.ID = "" }, ErrEmptyPackageID},
		{"unknown state", func(p *PackageRecord) { p.State = "gone" }, ErrInvalidPackageState},
		{"unknown status", func(p *PackageRecord) { p.Status = "" }, ErrInvalidMainStatus},
		{"empty interface key", func(p *PackageRecord) { p.Interfaces[1].Key = "" }, ErrEmptyInterfaceKey},
		{"duplicate interface key", func(p *PackageRecord) { p.Interfaces[1].Key = "main" }, ErrDuplicateInterfaceKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
