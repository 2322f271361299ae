package resolver

import (
	"errors"
	"fmt"

	"github.com/nao1215/netctx/internal/hostutil"
	"github.com/nao1215/netctx/internal/model"
)

// Lint reports problems that would make the launch URL of pkg wrong or empty.
// It never fails; every finding is returned as an Issue.
func Lint(pkg *model.PackageRecord) []model.Issue {
	var issues []model.Issue
	add := func(key string, code model.IssueCode, value, format string, args ...any) {
		issues = append(issues, model.NewIssue(pkg.ID, key, code, fmt.Sprintf(format, args...), value))
	}

	uiCount := 0
	for _, iface := range pkg.Interfaces {
		if iface.UI {
			uiCount++
		}
	}
	uiKey := FindUserInterfaceKey(pkg.Interfaces)

	switch {
	case uiCount == 0:
		add("", model.IssueNoUI, "", "package declares no user interface")
	case uiCount > 1:
		add(uiKey, model.IssueMultipleUI, "", "%d interfaces are flagged as UI; %q is used", uiCount, uiKey)
	}
	if uiCount > 0 && !HasUI(pkg.Interfaces) {
		add(uiKey, model.IssueUIWithoutAddress, "", "UI interface %q supports neither Tor nor LAN", uiKey)
	}

	if !pkg.IsInstalled() {
		if pkg.Installed != nil {
			add("", model.IssueTableNotInstalled, "", "package is %s but has an address table", pkg.State)
		}
		return issues
	}
	if pkg.Installed == nil {
		add("", model.IssueMissingTable, "", "%v", ErrMissingAddressTable)
		return issues
	}

	declared := make(map[string]bool, len(pkg.Interfaces))
	for _, iface := range pkg.Interfaces {
		declared[iface.Key] = true
		addrs, ok := pkg.Installed.Lookup(iface.Key)
		if !ok {
			if iface.Key == uiKey && HasUI(pkg.Interfaces) {
				add(iface.Key, model.IssueMissingTableEntry, "", "no addresses for UI interface %q", iface.Key)
			}
			continue
		}
		issues = append(issues, lintAddresses(pkg.ID, iface, addrs)...)
	}

	for _, entry := range pkg.Installed.Entries() {
		if !declared[entry.Key] {
			add(entry.Key, model.IssueUnknownTableEntry, "", "address table entry %q has no interface", entry.Key)
		}
	}
	return issues
}

// lintAddresses checks the address pair of a single declared interface.
func lintAddresses(pkgID string, iface model.InterfaceDefinition, addrs model.InterfaceAddresses) []model.Issue {
	var issues []model.Issue

	if iface.SupportsAnonymity {
		switch {
		case addrs.Anonymity == "":
			issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueEmptyTorAddress,
				"interface supports Tor but has no onion address", ""))
		case hostutil.StripScheme(addrs.Anonymity) != addrs.Anonymity:
			// The launch URL prepends its own scheme.
			issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueInvalidTorAddress,
				"onion address must not include a scheme", addrs.Anonymity))
		default:
			onion, err := model.NewOnionAddress(addrs.Anonymity)
			switch {
			case err != nil:
				issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueInvalidTorAddress,
					onionProblem(err), addrs.Anonymity))
			case onion.IsDeprecated():
				issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueDeprecatedOnion,
					"onion address is a deprecated v2 address", addrs.Anonymity))
			}
		}
	}

	if iface.SupportsLocal {
		switch {
		case addrs.Local == "":
			issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueEmptyLanAddress,
				"interface supports LAN but has no local address", ""))
		case hostutil.StripScheme(addrs.Local) != addrs.Local:
			issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueInvalidLanAddress,
				"local address must not include a scheme", addrs.Local))
		case !model.IsValidLocalAddress(addrs.Local):
			issues = append(issues, model.NewIssue(pkgID, iface.Key, model.IssueInvalidLanAddress,
				"local address is not a host[:port]", addrs.Local))
		}
	}

	return issues
}

func onionProblem(err error) string {
	if errors.Is(err, model.ErrOnionChecksum) {
		return "onion address checksum does not match"
	}
	return "onion address is not a valid onion hostname"
}
