package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/netctx/internal/model"
	"github.com/nao1215/netctx/internal/resolver"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
// Plaintext sessions and lint errors are rendered as GFM alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the document in Markdown format.
func (w *MarkdownWriter) Write(doc *Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeSession(md, doc)
	w.writeResolutions(md, doc)
	w.writeIssues(md, doc)
	w.writeProbes(md, doc)
	w.writeFooter(md, doc)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and a property table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *Document) {
	md.H1("netctx Report")
	md.PlainText("")

	rows := [][]string{
		{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if doc.Version != "" {
		rows = append(rows, []string{"Version", doc.Version})
	}
	if doc.Workspace != nil && !doc.Workspace.IsZero() {
		rows = append(rows,
			[]string{"OS Arch", orDash(doc.Workspace.OSArch)},
			[]string{"Package Arch", orDash(doc.Workspace.PackageArch)},
			[]string{"Git Hash", orDash(doc.Workspace.GitHash)},
		)
		if doc.Workspace.APIURL != "" {
			rows = append(rows, []string{"API", doc.Workspace.APIURL})
		}
		if doc.Workspace.APIVersion != "" {
			rows = append(rows, []string{"API Version", doc.Workspace.APIVersion})
		}
		if doc.Workspace.MarketplaceURL != "" {
			rows = append(rows, []string{"Marketplace", doc.Workspace.MarketplaceURL})
		}
	}

	s := doc.Summary()
	if len(doc.Resolutions) > 0 {
		rows = append(rows,
			[]string{"Packages", strconv.Itoa(s.Packages)},
			[]string{"Launchable", strconv.Itoa(s.Launchable)},
		)
	}
	if len(doc.Probes) > 0 {
		rows = append(rows, []string{"Reachable", fmt.Sprintf("%d / %d", s.Reachable, s.Probed)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSession writes the session facts, warning on plaintext sessions.
func (w *MarkdownWriter) writeSession(md *markdown.Markdown, doc *Document) {
	if doc.Session == nil {
		return
	}
	f := doc.Session

	md.H2("Session")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Fact", "Value"},
		Rows: [][]string{
			{"Location", "`" + f.Location.String() + "`"},
			{"Kind", string(f.Kind)},
			{"Secure transport", yesNo(f.SecureTransport)},
			{"HTTPS", yesNo(f.HTTPS)},
			{"Mocked", yesNo(f.Mocked)},
		},
	})
	md.PlainText("")

	if warning := f.Warning(); warning != "" {
		md.Warningf("Insecure session: %s.", warning)
		md.PlainText("")
	}
}

// writeResolutions writes a table of packages and launch URLs.
func (w *MarkdownWriter) writeResolutions(md *markdown.Markdown, doc *Document) {
	if len(doc.Resolutions) == 0 {
		return
	}

	md.H2("Packages")
	md.PlainText("")

	rows := make([][]string, len(doc.Resolutions))
	for i, r := range doc.Resolutions {
		rows[i] = []string{
			r.PackageID,
			string(r.State),
			string(r.Status),
			launchCell(r),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Package", "State", "Status", "Launch"},
		Rows:   rows,
	})
	md.PlainText("")
}

func launchCell(r resolver.Resolution) string {
	switch {
	case r.Error != "":
		return "❌ " + r.Error
	case r.LaunchURL != "":
		return "`" + r.LaunchURL + "`"
	case !r.HasUI:
		return "no UI"
	default:
		return "-"
	}
}

// writeIssues writes the lint section with a severity chart and alert.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, doc *Document) {
	if doc.Issues == nil {
		return
	}

	md.H2("Lint")
	md.PlainText("")

	s := doc.Summary()
	switch {
	case s.Errors > 0:
		md.Cautionf("%d package(s) cannot produce a launch URL.", s.Errors)
	case s.Warnings > 0:
		md.Warningf("%d warning(s) found; packages launch, perhaps not as intended.", s.Warnings)
	case s.Infos > 0:
		md.Note("Only informational issues found.")
	default:
		md.Tip("No address issues found.")
	}
	md.PlainText("")

	if len(doc.Issues) == 0 {
		return
	}
	w.writePieChart(md, s)

	for _, sev := range severities {
		issues := doc.IssuesBySeverity(sev)
		if len(issues) == 0 {
			continue
		}
		md.H3(sev.String())
		md.PlainText("")
		w.writeIssueTable(md, issues)
	}
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)
	if s.Errors > 0 {
		chart.LabelAndIntValue("Error", uint64(s.Errors))
	}
	if s.Warnings > 0 {
		chart.LabelAndIntValue("Warning", uint64(s.Warnings))
	}
	if s.Infos > 0 {
		chart.LabelAndIntValue("Info", uint64(s.Infos))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeIssueTable(md *markdown.Markdown, issues []model.Issue) {
	rows := make([][]string, len(issues))
	for i, is := range issues {
		rows[i] = []string{
			is.PackageID,
			orDash(is.InterfaceKey),
			string(is.Code),
			truncateString(is.Message, 60),
			truncateString(orDash(is.Value), 40),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Package", "Interface", "Code", "Message", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, is := range issues {
		if is.Recommendation != "" {
			md.Details(is.PackageID+": "+string(is.Code), is.Recommendation)
		}
	}
	md.PlainText("")
}

// writeProbes writes the reachability table.
func (w *MarkdownWriter) writeProbes(md *markdown.Markdown, doc *Document) {
	if len(doc.Probes) == 0 {
		return
	}

	md.H2("Reachability")
	md.PlainText("")

	rows := make([][]string, len(doc.Probes))
	for i, p := range doc.Probes {
		switch {
		case p.Skipped:
			rows[i] = []string{p.PackageID, "-", "-", "-", "-", "skipped: " + p.Reason}
		case p.Error != "":
			rows[i] = []string{p.PackageID, string(p.Transport), "-", "-", "-", "❌ " + truncateString(p.Error, 60)}
		default:
			rows[i] = []string{
				p.PackageID,
				string(p.Transport),
				strconv.Itoa(p.StatusCode),
				orDash(p.Title),
				p.Latency.Round(time.Millisecond).String(),
				reachText(p.Reachable()),
			}
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Package", "Via", "Status", "Title", "Latency", "Result"},
		Rows:   rows,
	})
	md.PlainText("")
}

func reachText(ok bool) string {
	if ok {
		return "✅ reachable"
	}
	return "⚠️ unhealthy"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, doc *Document) {
	md.HorizontalRule()
	md.PlainText("")
	if doc.Version != "" {
		md.PlainTextf("*Report generated by netctx %s*", doc.Version)
		return
	}
	md.PlainText("*Report generated by netctx*")
}
