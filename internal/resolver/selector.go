package resolver

import (
	"fmt"

	"github.com/nao1215/netctx/internal/model"
)

// SessionClassifier is the part of a session classifier the launch policy needs.
type SessionClassifier interface {
	IsAnonymitySession() bool
}

// FindUserInterfaceKey returns the key of the first UI interface, or "".
func FindUserInterfaceKey(interfaces []model.InterfaceDefinition) string {
	if ui, ok := userInterface(interfaces); ok {
		return ui.Key
	}
	return ""
}

// userInterface returns the first interface flagged as UI.
func userInterface(interfaces []model.InterfaceDefinition) (model.InterfaceDefinition, bool) {
	for _, iface := range interfaces {
		if iface.UI {
			return iface, true
		}
	}
	return model.InterfaceDefinition{}, false
}

// HasAnonymityUI reports whether the UI interface has a Tor configuration.
func HasAnonymityUI(interfaces []model.InterfaceDefinition) bool {
	ui, ok := userInterface(interfaces)
	return ok && ui.SupportsAnonymity
}

// HasLocalUI reports whether the UI interface has a LAN configuration.
func HasLocalUI(interfaces []model.InterfaceDefinition) bool {
	ui, ok := userInterface(interfaces)
	return ok && ui.SupportsLocal
}

// HasUI reports whether the UI interface is reachable over Tor or LAN.
func HasUI(interfaces []model.InterfaceDefinition) bool {
	return HasAnonymityUI(interfaces) || HasLocalUI(interfaces)
}

// IsLaunchable reports whether a package can be opened: installed, running
// and exposing a reachable user interface.
func IsLaunchable(state model.PackageState, status model.MainStatus, interfaces []model.InterfaceDefinition) bool {
	return state == model.PackageStateInstalled &&
		status == model.MainStatusRunning &&
		HasUI(interfaces)
}

// uiAddresses looks up the address pair of the UI interface.
// It returns the zero pair when the package is not installed or the UI key
// has no entry, and ErrMissingAddressTable when an installed package has no table.
func uiAddresses(pkg *model.PackageRecord) (model.InterfaceAddresses, error) {
	if !pkg.IsInstalled() {
		return model.InterfaceAddresses{}, nil
	}
	if pkg.Installed == nil {
		return model.InterfaceAddresses{}, fmt.Errorf("package %s: %w", pkg.ID, ErrMissingAddressTable)
	}
	key := FindUserInterfaceKey(pkg.Interfaces)
	if key == "" {
		return model.InterfaceAddresses{}, nil
	}
	addrs, _ := pkg.Installed.Lookup(key)
	return addrs, nil
}

// ResolveAnonymityAddress returns the onion address of the package UI, or "".
func ResolveAnonymityAddress(pkg *model.PackageRecord) (string, error) {
	addrs, err := uiAddresses(pkg)
	if err != nil {
		return "", err
	}
	return addrs.Anonymity, nil
}

// ResolveLocalAddress returns the LAN address of the package UI, or "".
func ResolveLocalAddress(pkg *model.PackageRecord) (string, error) {
	addrs, err := uiAddresses(pkg)
	if err != nil {
		return "", err
	}
	return addrs.Local, nil
}
