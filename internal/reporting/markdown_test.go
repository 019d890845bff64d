package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMarkdown(t *testing.T) {
	md := FormatMarkdown(newTestSummary(), ReportMeta{Study: "s", RoutingFilter: "oracle", Records: 26})

	assert.Contains(t, md, "## Specialization Summary")
	assert.Contains(t, md, "**Study:** `s` | **Routing:** oracle | **Records:** 26")
	assert.Contains(t, md, "| psk | specialist | oracle | 75.0 | 4 |")
	assert.Contains(t, md, "| psk | 50.0 | 75.0 | +25.0 |")
	assert.Contains(t, md, "| analog | 80.0 | 60.0 | -20.0 |")
	assert.Contains(t, md, "| qam | 50.0 | n/a | n/a |")
}

func TestFormatMarkdown_RoutingLabels(t *testing.T) {
	md := FormatMarkdown(nil, ReportMeta{Study: "s"})
	assert.Contains(t, md, "**Routing:** all")

	md = FormatMarkdown(nil, ReportMeta{Study: "s", RoutingFilter: "learned", FilterFallback: true})
	assert.Contains(t, md, "**Routing:** learned (no match, all modes used)")
}

func TestWriteHTMLReport(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteHTMLReport(newTestSummary(), ReportMeta{Study: "s", RoutingFilter: "oracle"}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, HTMLReportFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<h2>Specialization Summary</h2>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>psk</td>")
}
