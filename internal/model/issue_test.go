package model

import "testing"

func TestNewIssue(t *testing.T) {
	t.Parallel()

	issue := NewIssue("bitcoind", "main", IssueMissingTable, "no address table", "")
	if issue.Severity != SeverityError {
		t.Errorf("Severity = %v, expected %v", issue.Severity, SeverityError)
	}
	if issue.Recommendation == "" {
		t.Error("expected a recommendation")
	}

	unknown := NewIssue("x", "", IssueCode("made_up"), "", "")
	if unknown.Severity != SeverityInfo {
		t.Errorf("unknown code severity = %v, expected %v", unknown.Severity, SeverityInfo)
	}
}

func TestCountBySeverityAndHasErrors(t *testing.T) {
	t.Parallel()

	issues := []Issue{
		NewIssue("a", "", IssueNoUI, "", ""),
		NewIssue("a", "main", IssueMultipleUI, "", ""),
		NewIssue("b", "main", IssueInvalidLanAddress, "", ""),
	}
	counts := CountBySeverity(issues)
	if counts[SeverityInfo] != 1 || counts[SeverityWarning] != 2 || counts[SeverityError] != 0 {
		t.Errorf("CountBySeverity() = %v", counts)
	}
	if HasErrors(issues) {
		t.Error("expected HasErrors to be false")
	}

	issues = append(issues, NewIssue("c", "", IssueMissingTable, "", ""))
	if !HasErrors(issues) {
		t.Error("expected HasErrors to be true")
	}
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	tests := map[Severity]string{
		SeverityInfo:    "INFO",
		SeverityWarning: "WARNING",
		SeverityError:   "ERROR",
		Severity(99):    "UNKNOWN",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, expected %q", s, got, want)
		}
	}
}
