package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modspec/specgain/internal/models"
)

// Output file names. Downstream TeX sources reference these literally, so
// family_confusion_deltas keeps its name even though it plots the gain.
const (
	CalloutsFile      = "specialization_callouts.tex"
	TableFile         = "specialization_table.tex"
	HTMLReportFile    = "specialization_report.html"
	AccuracyChartName = "specialization_gain_vs_generalist"
	GainChartName     = "family_confusion_deltas"
)

const noCallouts = "% No specialization callouts available; generated empty file."

// RenderCallouts returns the \newcommand definitions for every mapped family
// that has both a generalist and a specialist row, in mapping order. Mapping
// families match case-insensitively.
func RenderCallouts(summary models.Summary, mappings []models.MacroMapping) string {
	var lines []string
	for _, m := range mappings {
		family := strings.ToLower(m.Family)
		gen, okGen := summary.Accuracy(family, models.RoleGeneralist)
		spec, okSpec := summary.Accuracy(family, models.RoleSpecialist)
		if !okGen || !okSpec {
			continue
		}
		gain := (spec - gen) * 100.0

		lines = append(lines,
			newCommand(m.Macro+"GeneralistAcc", gen*100.0),
			newCommand(m.Macro+"SpecialistAcc", spec*100.0),
			newCommand(m.Macro+"Gain", gain),
		)
	}

	if len(lines) == 0 {
		lines = append(lines, noCallouts)
	}
	return strings.Join(lines, "\n") + "\n"
}

func newCommand(name string, value float64) string {
	return fmt.Sprintf("\\newcommand{\\%s}{%.1f}", name, value)
}

// WriteCallouts writes RenderCallouts to dir/specialization_callouts.tex.
func WriteCallouts(summary models.Summary, dir string, mappings []models.MacroMapping) (string, error) {
	return writeText(dir, CalloutsFile, RenderCallouts(summary, mappings))
}

// RenderTable returns a booktabs table with one row per aggregate row.
func RenderTable(summary models.Summary) string {
	var b strings.Builder
	b.WriteString("\\begin{table}[t]\n")
	b.WriteString("  \\centering\n")
	b.WriteString("  \\caption{Generalist vs specialist accuracy per modulation family.}\n")
	b.WriteString("  \\label{tab:specialization-results}\n")
	b.WriteString("  \\begin{tabular}{llllr}\n")
	b.WriteString("    \\toprule\n")
	b.WriteString("    Family & Role & Routing & Acc (\\%) & $N$ \\\\\n")
	b.WriteString("    \\midrule\n")

	for _, row := range summary {
		fmt.Fprintf(&b, "    %s & %s & %s & %.1f & %d \\\\\n",
			row.Family, row.ModelRole, row.RoutingMode, row.AccuracyPct(), row.N)
	}

	b.WriteString("    \\bottomrule\n")
	b.WriteString("  \\end{tabular}\n")
	b.WriteString("\\end{table}\n")
	return b.String()
}

// WriteTable writes RenderTable to dir/specialization_table.tex.
func WriteTable(summary models.Summary, dir string) (string, error) {
	return writeText(dir, TableFile, RenderTable(summary))
}

func writeText(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
