package report

import (
	"time"

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/probe"
	"github.com/nao1215/netctx/internal/resolver"
	"github.com/nao1215/netctx/internal/session"
)

// WorkspaceInfo identifies the build a report was produced against.
// Values are copied from the workspace file as is.
type WorkspaceInfo struct {
	PackageArch    string `json:"packageArch,omitempty"`
	OSArch         string `json:"osArch,omitempty"`
	GitHash        string `json:"gitHash,omitempty"`
	APIURL         string `json:"apiUrl,omitempty"`
	APIVersion     string `json:"apiVersion,omitempty"`
	MarketplaceURL string `json:"marketplaceUrl,omitempty"`
}

// IsZero reports whether no field is set.
func (w WorkspaceInfo) IsZero() bool {
	return w == WorkspaceInfo{}
}

// Document is everything one netctx command produced.
// Sections that a command did not compute stay nil and are omitted.
type Document struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Version     string                `json:"version,omitempty"`
	Workspace   *WorkspaceInfo        `json:"workspace,omitempty"`
	Session     *session.Facts        `json:"session,omitempty"`
	Resolutions []resolver.Resolution `json:"resolutions,omitempty"`
	Issues      []model.Issue         `json:"issues,omitempty"`
	Probes      []probe.Result        `json:"probes,omitempty"`
}

// NewDocument returns an empty Document stamped with the current time.
func NewDocument(version string) *Document {
	return &Document{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
	}
}

// Summary holds the counts shown at the top of every report.
type Summary struct {
	Packages   int `json:"packages"`
	Launchable int `json:"launchable"`
	Failed     int `json:"failed"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Infos      int `json:"infos"`
	Probed     int `json:"probed"`
	Reachable  int `json:"reachable"`
}

// Summary counts the document's sections.
func (d *Document) Summary() Summary {
	s := Summary{Packages: len(d.Resolutions)}
	for _, r := range d.Resolutions {
		if r.Launchable {
			s.Launchable++
		}
		if r.Error != "" {
			s.Failed++
		}
	}

	counts := model.CountBySeverity(d.Issues)
	s.Errors = counts[model.SeverityError]
	s.Warnings = counts[model.SeverityWarning]
	s.Infos = counts[model.SeverityInfo]

	for _, p := range d.Probes {
		if p.Skipped {
			continue
		}
		s.Probed++
		if p.Reachable() {
			s.Reachable++
		}
	}
	return s
}

// IssuesBySeverity returns the issues of one severity in input order.
func (d *Document) IssuesBySeverity(sev model.Severity) []model.Issue {
	var out []model.Issue
	for _, i := range d.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// severities lists severity levels from most to least serious.
var severities = []model.Severity{
	model.SeverityError,
	model.SeverityWarning,
	model.SeverityInfo,
}
