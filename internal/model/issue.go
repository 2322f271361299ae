package model

// Severity represents how serious a lint issue is.
type Severity int

const (
	// SeverityInfo is an observation with no effect on launching.
	SeverityInfo Severity = iota
	// SeverityWarning means the package launches, but perhaps not as intended.
	SeverityWarning
	// SeverityError means the resolver cannot produce a usable launch URL.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the severity as its name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IssueCode identifies a kind of lint issue.
type IssueCode string

// Issue codes reported by the linter.
const (
	IssueMultipleUI        IssueCode = "multiple_ui"
	IssueNoUI              IssueCode = "no_ui"
	IssueUIWithoutAddress  IssueCode = "ui_without_address"
	IssueMissingTable      IssueCode = "missing_address_table"
	IssueMissingTableEntry IssueCode = "missing_table_entry"
	IssueEmptyTorAddress   IssueCode = "empty_tor_address"
	IssueEmptyLanAddress   IssueCode = "empty_lan_address"
	IssueInvalidTorAddress IssueCode = "invalid_tor_address"
	IssueDeprecatedOnion   IssueCode = "deprecated_onion"
	IssueInvalidLanAddress IssueCode = "invalid_lan_address"
	IssueUnknownTableEntry IssueCode = "unknown_table_entry"
	IssueTableNotInstalled IssueCode = "table_while_not_installed"
)

// IssueInfo is the fixed metadata of an issue code.
type IssueInfo struct {
	Severity       Severity
	Recommendation string
}

// issueInfoMapping is the single source of severity and advice per code.
var issueInfoMapping = map[IssueCode]IssueInfo{
	IssueMissingTable: {
		Severity:       SeverityError,
		Recommendation: "The package is installed but has no interface addresses; refresh the package data.",
	},
	IssueUIWithoutAddress: {
		Severity:       SeverityError,
		Recommendation: "Declare a tor-config or lan-config on the UI interface.",
	},
	IssueMissingTableEntry: {
		Severity:       SeverityError,
		Recommendation: "Add interface-addresses for the UI interface key.",
	},
	IssueEmptyTorAddress: {
		Severity:       SeverityWarning,
		Recommendation: "The interface supports Tor but no onion address was assigned.",
	},
	IssueEmptyLanAddress: {
		Severity:       SeverityWarning,
		Recommendation: "The interface supports LAN access but no local address was assigned.",
	},
	IssueInvalidTorAddress: {
		Severity:       SeverityWarning,
		Recommendation: "Use a 56-character v3 onion hostname without scheme or path.",
	},
	IssueInvalidLanAddress: {
		Severity:       SeverityWarning,
		Recommendation: "Use a hostname or IP literal with an optional port, without scheme or path.",
	},
	IssueMultipleUI: {
		Severity:       SeverityWarning,
		Recommendation: "Only the first UI interface is used; mark the others as non-UI.",
	},
	IssueDeprecatedOnion: {
		Severity:       SeverityWarning,
		Recommendation: "v2 onion services no longer work on the Tor network; migrate to v3.",
	},
	IssueNoUI: {
		Severity:       SeverityInfo,
		Recommendation: "The package has no user interface and cannot be launched.",
	},
	IssueUnknownTableEntry: {
		Severity:       SeverityInfo,
		Recommendation: "The address table has an entry for an interface the manifest does not declare.",
	},
	IssueTableNotInstalled: {
		Severity:       SeverityInfo,
		Recommendation: "Address tables are ignored until the package is installed.",
	},
}

// GetIssueInfo returns the metadata for code. Unknown codes are info-level.
func GetIssueInfo(code IssueCode) IssueInfo {
	if info, ok := issueInfoMapping[code]; ok {
		return info
	}
	return IssueInfo{Severity: SeverityInfo}
}

// Issue is one lint finding about a package.
type Issue struct {
	PackageID      string    `json:"packageId"`
	InterfaceKey   string    `json:"interfaceKey,omitempty"`
	Code           IssueCode `json:"code"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message"`
	Value          string    `json:"value,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// NewIssue builds an Issue, filling severity and recommendation from the code.
func NewIssue(packageID, interfaceKey string, code IssueCode, message, value string) Issue {
	info := GetIssueInfo(code)
	return Issue{
		PackageID:      packageID,
		InterfaceKey:   interfaceKey,
		Code:           code,
		Severity:       info.Severity,
		Message:        message,
		Value:          value,
		Recommendation: info.Recommendation,
	}
}

// CountBySeverity tallies issues per severity.
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, i := range issues {
		counts[i.Severity]++
	}
	return counts
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity >= SeverityError {
			return true
		}
	}
	return false
}
