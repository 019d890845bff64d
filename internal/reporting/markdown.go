package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/modspec/specgain/internal/models"
)

// ReportMeta describes the run a report was generated from.
type ReportMeta struct {
	Study          string
	RoutingFilter  string
	FilterFallback bool
	Records        int
}

// FormatMarkdown renders the summary as a markdown document with the full
// aggregate table and the per-family gain table.
func FormatMarkdown(summary models.Summary, meta ReportMeta) string {
	var b strings.Builder

	b.WriteString("## Specialization Summary\n\n")

	routing := meta.RoutingFilter
	switch {
	case routing == "":
		routing = "all"
	case meta.FallbackLabel() != "":
		routing += " " + meta.FallbackLabel()
	}
	fmt.Fprintf(&b, "**Study:** `%s` | **Routing:** %s | **Records:** %d\n\n", meta.Study, routing, meta.Records)

	b.WriteString("| Family | Role | Routing | Acc (%) | N |\n")
	b.WriteString("|--------|------|---------|--------:|--:|\n")
	for _, row := range summary {
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f | %d |\n",
			row.Family, row.ModelRole, row.RoutingMode, row.AccuracyPct(), row.N)
	}
	b.WriteString("\n")

	b.WriteString("### Specialist Gain\n\n")
	b.WriteString("| Family | Generalist (%) | Specialist (%) | Gain (pp) |\n")
	b.WriteString("|--------|---------------:|---------------:|----------:|\n")
	for _, family := range summary.Families() {
		gen, okGen := summary.Accuracy(family, models.RoleGeneralist)
		spec, okSpec := summary.Accuracy(family, models.RoleSpecialist)
		gain := "n/a"
		if okGen && okSpec {
			gain = fmt.Sprintf("%+.1f", (spec-gen)*100.0)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", family, pct(gen, okGen), pct(spec, okSpec), gain)
	}

	return b.String()
}

// FallbackLabel returns the note shown when the routing filter was ignored.
func (m ReportMeta) FallbackLabel() string {
	if m.FilterFallback {
		return "(no match, all modes used)"
	}
	return ""
}

func pct(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v*100.0)
}

// RenderHTML converts FormatMarkdown output into a standalone HTML page.
func RenderHTML(summary models.Summary, meta ReportMeta) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdown(summary, meta)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>Specialization Summary</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// WriteHTMLReport writes RenderHTML to dir/specialization_report.html.
func WriteHTMLReport(summary models.Summary, meta ReportMeta, dir string) (string, error) {
	html, err := RenderHTML(summary, meta)
	if err != nil {
		return "", err
	}
	return writeText(dir, HTMLReportFile, string(html))
}
