package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/netctx/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
// State and status names are title-cased; everything else is printed as is.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the document in human-readable format.
func (w *SimpleWriter) Write(doc *Document) (int, error) {
	var sb strings.Builder
	// cases.Caser keeps state, so each Write gets its own.
	title := cases.Title(language.English)

	w.writeHeader(&sb, doc)
	w.writeSession(&sb, doc)
	w.writeResolutions(&sb, doc, title)
	w.writeIssues(&sb, doc)
	w.writeProbes(&sb, doc)
	w.writeFooter(&sb, doc)

	return w.output.Write([]byte(sb.String()))
}

func writeSection(sb *strings.Builder, name string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(name)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header and summary counts.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, doc *Document) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          NETCTX REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:      %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if doc.Workspace != nil && !doc.Workspace.IsZero() {
		fmt.Fprintf(sb, "Workspace:      %s/%s %s\n",
			orDash(doc.Workspace.OSArch), orDash(doc.Workspace.PackageArch), orDash(doc.Workspace.GitHash))
		if doc.Workspace.APIURL != "" || doc.Workspace.APIVersion != "" {
			fmt.Fprintf(sb, "API:            %s %s\n", orDash(doc.Workspace.APIURL), orDash(doc.Workspace.APIVersion))
		}
		if doc.Workspace.MarketplaceURL != "" {
			fmt.Fprintf(sb, "Marketplace:    %s\n", doc.Workspace.MarketplaceURL)
		}
	}

	s := doc.Summary()
	if len(doc.Resolutions) > 0 || w.showEmpty {
		fmt.Fprintf(sb, "Packages:       %d (%d launchable, %d failed)\n", s.Packages, s.Launchable, s.Failed)
	}
	if len(doc.Issues) > 0 || w.showEmpty {
		fmt.Fprintf(sb, "Issues:         %d error(s), %d warning(s), %d info\n", s.Errors, s.Warnings, s.Infos)
	}
	if len(doc.Probes) > 0 || w.showEmpty {
		fmt.Fprintf(sb, "Probes:         %d of %d reachable\n", s.Reachable, s.Probed)
	}
	sb.WriteString("\n")
}

// writeSession writes the classified session and its warning, if any.
func (w *SimpleWriter) writeSession(sb *strings.Builder, doc *Document) {
	if doc.Session == nil {
		return
	}
	f := doc.Session
	writeSection(sb, "SESSION")

	fmt.Fprintf(sb, "  Location:        %s\n", f.Location)
	fmt.Fprintf(sb, "  Kind:            %s\n", f.Kind)
	fmt.Fprintf(sb, "  Secure:          %t\n", f.SecureTransport)
	fmt.Fprintf(sb, "  HTTPS:           %t\n", f.HTTPS)
	if f.Mocked {
		sb.WriteString("  Mocked:          true\n")
	}
	if w.verbose {
		fmt.Fprintf(sb, "  Tor session:     %t\n", f.AnonymitySession)
		fmt.Fprintf(sb, "  LAN session:     %t\n", f.LocalNetworkSession)
		fmt.Fprintf(sb, "  Localhost:       %t\n", f.LocalhostSession)
	}
	if warning := f.Warning(); warning != "" {
		fmt.Fprintf(sb, "\n  [!] %s\n", warning)
	}
	sb.WriteString("\n")
}

// writeResolutions writes one line per package with its launch URL.
func (w *SimpleWriter) writeResolutions(sb *strings.Builder, doc *Document, title cases.Caser) {
	if len(doc.Resolutions) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "PACKAGES")

	if len(doc.Resolutions) == 0 {
		sb.WriteString("  No packages\n\n")
		return
	}

	for _, r := range doc.Resolutions {
		marker := "-"
		if r.Launchable {
			marker = "+"
		}
		fmt.Fprintf(sb, "  [%s] %s (%s, %s)\n",
			marker, r.PackageID, title.String(string(r.State)), title.String(string(r.Status)))
		switch {
		case r.Error != "":
			fmt.Fprintf(sb, "      Error: %s\n", r.Error)
		case r.LaunchURL != "":
			fmt.Fprintf(sb, "      Launch: %s\n", r.LaunchURL)
		case !r.HasUI:
			sb.WriteString("      No user interface\n")
		}
		if w.verbose {
			if r.AnonymityAddress != "" {
				fmt.Fprintf(sb, "      Tor: %s\n", r.AnonymityAddress)
			}
			if r.LocalAddress != "" {
				fmt.Fprintf(sb, "      LAN: %s\n", r.LocalAddress)
			}
		}
	}
	sb.WriteString("\n")
}

// writeIssues writes lint issues grouped by severity.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, doc *Document) {
	if len(doc.Issues) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "ISSUES")

	for _, sev := range severities {
		issues := doc.IssuesBySeverity(sev)
		if len(issues) == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "[%s] %s\n", severityIndicator(sev), sev)
		if len(issues) == 0 {
			sb.WriteString("  No issues\n\n")
			continue
		}
		for _, i := range issues {
			if i.InterfaceKey != "" {
				fmt.Fprintf(sb, "  * %s/%s: %s\n", i.PackageID, i.InterfaceKey, i.Message)
			} else {
				fmt.Fprintf(sb, "  * %s: %s\n", i.PackageID, i.Message)
			}
			if i.Value != "" {
				fmt.Fprintf(sb, "    Value: %s\n", i.Value)
			}
			if w.verbose && i.Recommendation != "" {
				fmt.Fprintf(sb, "    Recommendation: %s\n", i.Recommendation)
			}
		}
		sb.WriteString("\n")
	}
}

// writeProbes writes one line per probe result.
func (w *SimpleWriter) writeProbes(sb *strings.Builder, doc *Document) {
	if len(doc.Probes) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, "REACHABILITY")

	for _, p := range doc.Probes {
		switch {
		case p.Skipped:
			fmt.Fprintf(sb, "  [ ] %s skipped: %s\n", p.PackageID, p.Reason)
		case p.Error != "":
			fmt.Fprintf(sb, "  [x] %s %s via %s: %s\n", p.PackageID, p.URL, p.Transport, p.Error)
		default:
			fmt.Fprintf(sb, "  [%s] %s %s via %s: %d in %s\n",
				reachMarker(p.Reachable()), p.PackageID, p.URL, p.Transport, p.StatusCode, p.Latency.Round(time.Millisecond))
			if p.Title != "" {
				fmt.Fprintf(sb, "      Title: %s\n", p.Title)
			}
		}
	}
	sb.WriteString("\n")
}

func reachMarker(ok bool) string {
	if ok {
		return "+"
	}
	return "x"
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, doc *Document) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	if doc.Version != "" {
		fmt.Fprintf(sb, "Report generated by netctx %s\n", doc.Version)
	} else {
		sb.WriteString("Report generated by netctx\n")
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
