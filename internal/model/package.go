package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Package record errors.
var (
	// ErrEmptyPackageID is returned when a record has no ID.
	ErrEmptyPackageID = errors.New("package id cannot be empty")
	// ErrEmptyInterfaceKey is returned when an interface or address entry has no key.
	ErrEmptyInterfaceKey = errors.New("interface key cannot be empty")
	// ErrDuplicateInterfaceKey is returned when a key appears twice in one package.
	ErrDuplicateInterfaceKey = errors.New("duplicate interface key")
	// ErrInvalidPackageState is returned for an unknown lifecycle state.
	ErrInvalidPackageState = errors.New("invalid package state")
	// ErrInvalidMainStatus is returned for an unknown main-process status.
	ErrInvalidMainStatus = errors.New("invalid main status")
)

// PackageState is the lifecycle state of a package.
type PackageState string

const (
	// PackageStateInstalling means the package is being installed.
	PackageStateInstalling PackageState = "installing"
	// PackageStateInstalled means installation finished; only installed
	// packages carry an address table.
	PackageStateInstalled PackageState = "installed"
	// PackageStateUpdating means a new version is being installed over this one.
	PackageStateUpdating PackageState = "updating"
	// PackageStateRemoving means the package is being uninstalled.
	PackageStateRemoving PackageState = "removing"
	// PackageStateRestoring means the package is being restored from backup.
	PackageStateRestoring PackageState = "restoring"
)

var packageStates = []PackageState{
	PackageStateInstalling,
	PackageStateInstalled,
	PackageStateUpdating,
	PackageStateRemoving,
	PackageStateRestoring,
}

// ParsePackageState converts a string such as "installed" to a PackageState.
func ParsePackageState(s string) (PackageState, error) {
	normalized := PackageState(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range packageStates {
		if st == normalized {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPackageState, s)
}

// String returns the state name.
func (s PackageState) String() string {
	return string(s)
}

// MainStatus is the status of a package's main process.
type MainStatus string

const (
	// MainStatusRunning means the main process is up.
	MainStatusRunning MainStatus = "running"
	// MainStatusStopped means the main process is not running.
	MainStatusStopped MainStatus = "stopped"
	// MainStatusStarting means the main process is starting.
	MainStatusStarting MainStatus = "starting"
	// MainStatusStopping means the main process is shutting down.
	MainStatusStopping MainStatus = "stopping"
	// MainStatusRestarting means the main process is restarting.
	MainStatusRestarting MainStatus = "restarting"
	// MainStatusBackingUp means a backup is in progress.
	MainStatusBackingUp MainStatus = "backing-up"
)

var mainStatuses = []MainStatus{
	MainStatusRunning,
	MainStatusStopped,
	MainStatusStarting,
	MainStatusStopping,
	MainStatusRestarting,
	MainStatusBackingUp,
}

// ParseMainStatus converts a string such as "running" to a MainStatus.
func ParseMainStatus(s string) (MainStatus, error) {
	normalized := MainStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range mainStatuses {
		if st == normalized {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMainStatus, s)
}

// String returns the status name.
func (s MainStatus) String() string {
	return string(s)
}

// InterfaceDefinition is one named network interface of a package manifest.
type InterfaceDefinition struct {
	// Key identifies the interface within its package (e.g. "main", "rpc").
	Key string `json:"key"`
	// Name is an optional display name.
	Name string `json:"name,omitempty"`
	// UI marks the interface intended for direct human interaction.
	UI bool `json:"ui"`
	// SupportsAnonymity is true when the manifest carries a tor configuration.
	SupportsAnonymity bool `json:"torConfig"`
	// SupportsLocal is true when the manifest carries a lan configuration.
	SupportsLocal bool `json:"lanConfig"`
}

// InterfaceAddresses are the runtime addresses of one interface.
// An empty string means "not configured".
type InterfaceAddresses struct {
	Anonymity string `json:"torAddress"`
	Local     string `json:"lanAddress"`
}

// AddressEntry pairs an interface key with its addresses.
type AddressEntry struct {
	Key       string             `json:"key"`
	Addresses InterfaceAddresses `json:"addresses"`
}

// InstalledAddressTable maps interface keys to runtime addresses.
// It is immutable after construction; use NewInstalledAddressTable.
type InstalledAddressTable struct {
	entries map[string]InterfaceAddresses
	order   []string
}

// NewInstalledAddressTable builds a table from entries, keeping their order.
// Empty and duplicate keys are rejected.
func NewInstalledAddressTable(entries ...AddressEntry) (*InstalledAddressTable, error) {
	t := &InstalledAddressTable{
		entries: make(map[string]InterfaceAddresses, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Key == "" {
			return nil, ErrEmptyInterfaceKey
		}
		if _, exists := t.entries[e.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateInterfaceKey, e.Key)
		}
		t.entries[e.Key] = e.Addresses
		t.order = append(t.order, e.Key)
	}
	return t, nil
}

// MustNewInstalledAddressTable is like NewInstalledAddressTable but panics on error.
// Use only for known-valid tables in tests.
func MustNewInstalledAddressTable(entries ...AddressEntry) *InstalledAddressTable {
	t, err := NewInstalledAddressTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the addresses for key and whether the key is present.
func (t *InstalledAddressTable) Lookup(key string) (InterfaceAddresses, bool) {
	if t == nil {
		return InterfaceAddresses{}, false
	}
	a, ok := t.entries[key]
	return a, ok
}

// Len returns the number of entries.
func (t *InstalledAddressTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Entries returns a copy of the entries in construction order.
func (t *InstalledAddressTable) Entries() []AddressEntry {
	if t == nil {
		return nil
	}
	out := make([]AddressEntry, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, AddressEntry{Key: k, Addresses: t.entries[k]})
	}
	return out
}

// MarshalJSON encodes the table as an ordered list of entries.
func (t *InstalledAddressTable) MarshalJSON() ([]byte, error) {
	entries := t.Entries()
	if entries == nil {
		entries = []AddressEntry{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes an ordered list of entries, validating keys.
func (t *InstalledAddressTable) UnmarshalJSON(data []byte) error {
	var entries []AddressEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	decoded, err := NewInstalledAddressTable(entries...)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}

// PackageRecord is a package as the dashboard sees it.
type PackageRecord struct {
	// ID is the package identifier (e.g. "bitcoind").
	ID string `json:"id"`
	// Title is the display name.
	Title string `json:"title,omitempty"`
	// Version is the installed or installing version, informational only.
	Version string `json:"version,omitempty"`
	// State is the lifecycle state.
	State PackageState `json:"state"`
	// Status is the main-process status.
	Status MainStatus `json:"status"`
	// Interfaces are the manifest interfaces in catalog order.
	Interfaces []InterfaceDefinition `json:"interfaces"`
	// Installed is the address table; present only for installed packages.
	Installed *InstalledAddressTable `json:"installed,omitempty"`
}

// IsInstalled reports whether the record is in the installed state.
func (p *PackageRecord) IsInstalled() bool {
	return p.State == PackageStateInstalled
}

// Validate checks the structural invariants of the record: a non-empty ID,
// known state and status, and unique non-empty interface keys.
//
// An installed record without an address table passes validation. That is a
// data-layer contract violation which the resolver reports when it is asked
// for an address, not something a loader should silently drop.
func (p *PackageRecord) Validate() error {
	if p.ID == "" {
		return ErrEmptyPackageID
	}
	if _, err := ParsePackageState(string(p.State)); err != nil {
		return fmt.Errorf("package %s: %w", p.ID, err)
	}
	if _, err := ParseMainStatus(string(p.Status)); err != nil {
		return fmt.Errorf("package %s: %w", p.ID, err)
	}

	seen := make(map[string]bool, len(p.Interfaces))
	for _, iface := range p.Interfaces {
		if iface.Key == "" {
			return fmt.Errorf("package %s: %w", p.ID, ErrEmptyInterfaceKey)
		}
		if seen[iface.Key] {
			return fmt.Errorf("package %s: %w: %q", p.ID, ErrDuplicateInterfaceKey, iface.Key)
		}
		seen[iface.Key] = true
	}
	return nil
}
