package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/modspec/specgain/internal/extract"
	"github.com/modspec/specgain/internal/models"
	"github.com/modspec/specgain/internal/orchestration"
	"github.com/modspec/specgain/internal/reporting"
)

const ruleWidth = 70

func validateSummaryFormat(format string) error {
	switch format {
	case "table", "json", "markdown":
		return nil
	}
	return fmt.Errorf("unsupported format %q: must be table, json or markdown", format)
}

// summaryReport is the JSON console summary.
type summaryReport struct {
	Study          string                    `json:"study"`
	RoutingFilter  string                    `json:"routing_filter"`
	FilterFallback bool                      `json:"filter_fallback"`
	Records        int                       `json:"records"`
	Extraction     extract.Stats             `json:"extraction"`
	Rows           models.Summary            `json:"rows"`
	Comparisons    []models.FamilyComparison `json:"comparisons"`
	Written        []string                  `json:"written"`
}

func printSummary(w io.Writer, res *orchestration.Result, format string) error {
	switch format {
	case "json":
		return printSummaryJSON(w, res)
	case "markdown":
		_, err := io.WriteString(w, reporting.FormatMarkdown(res.Report.Summary, res.Report.Meta()))
		return err
	default:
		printSummaryTable(w, res, isTerminal(w))
		return nil
	}
}

func printSummaryJSON(w io.Writer, res *orchestration.Result) error {
	r := res.Report
	report := summaryReport{
		Study:          r.Study,
		RoutingFilter:  r.Filter,
		FilterFallback: r.FilterFallback,
		Records:        r.Used,
		Extraction:     r.Stats,
		Rows:           r.Summary,
		Comparisons:    r.Summary.Comparisons(),
		Written:        res.Written,
	}
	if report.Rows == nil {
		report.Rows = models.Summary{}
	}
	if report.Comparisons == nil {
		report.Comparisons = []models.FamilyComparison{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printSummaryTable(w io.Writer, res *orchestration.Result, tty bool) {
	r := res.Report
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(w, " SPECIALIZATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))

	routing := r.Filter
	if routing == "" {
		routing = "all"
	}
	if label := r.Meta().FallbackLabel(); label != "" {
		routing += " " + label
	}
	fmt.Fprintf(w, "  Study:    %s\n", r.Study)
	fmt.Fprintf(w, "  Routing:  %s\n", routing)
	p.Fprintf(w, "  Records:  %d used (%d lines in %d files)\n", r.Used, r.Stats.Lines, r.Stats.Files)
	fmt.Fprintln(w)

	const (
		colFamily  = 12
		colRole    = 12
		colRouting = 12
		colAcc     = 10
	)
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	fmt.Fprintf(w, "  %s%s%s%s%s\n",
		padRight("Family", colFamily),
		padRight("Role", colRole),
		padRight("Routing", colRouting),
		padRight("Acc (%)", colAcc),
		"N")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for _, row := range r.Summary {
		p.Fprintf(w, "  %s%s%s%s%d\n",
			padRight(row.Family, colFamily),
			padRight(row.ModelRole, colRole),
			padRight(row.RoutingMode, colRouting),
			padRight(fmt.Sprintf("%.1f", row.AccuracyPct()), colAcc),
			row.N)
	}
	fmt.Fprintln(w)

	comparisons := r.Summary.Comparisons()
	if len(comparisons) > 0 {
		const colGain = 12
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		fmt.Fprintln(w, " SPECIALIST GAIN")
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		fmt.Fprintf(w, "  %s%s%s%s%s\n",
			padRight("Family", colFamily),
			padRight("Generalist", colRole),
			padRight("Specialist", colRouting),
			padRight("Gain", colGain),
			"Normalized")
		for _, c := range comparisons {
			fmt.Fprintf(w, "  %s%s%s%s%s\n",
				padRight(c.Family, colFamily),
				padRight(fmt.Sprintf("%.1f", c.GeneralistPct), colRole),
				padRight(fmt.Sprintf("%.1f", c.SpecialistPct), colRouting),
				padRight(gainCell(c.GainPP, tty), colGain),
				fmt.Sprintf("%.2f", c.NormalizedGain))
		}
		fmt.Fprintln(w)
	}

	for _, path := range res.Written {
		fmt.Fprintf(w, "  Wrote %s\n", path)
	}
}

// gainCell formats a gain in percentage points, with a direction arrow on
// interactive terminals.
func gainCell(gain float64, tty bool) string {
	s := fmt.Sprintf("%+.1fpp", gain)
	if !tty {
		return s
	}
	icon := " "
	if gain > 0 {
		icon = "↑"
	} else if gain < 0 {
		icon = "↓"
	}
	return icon + s
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
