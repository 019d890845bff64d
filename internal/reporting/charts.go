package reporting

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/modspec/specgain/internal/models"
)

// DefaultImageFormat is the figure format used when none is configured.
const DefaultImageFormat = "pdf"

// Figure size defaults, in inches.
const (
	defaultWidth    = 6.4
	defaultHeight   = 4.8
	defaultBarWidth = 20
)

var imageFormats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true,
	"png": true, "svg": true, "tif": true, "tiff": true,
}

// ValidateImageFormat reports whether charts can be saved as format.
func ValidateImageFormat(format string) error {
	if !imageFormats[strings.ToLower(format)] {
		return fmt.Errorf("unsupported image format %q: must be one of eps, jpg, jpeg, pdf, png, svg, tif, tiff", format)
	}
	return nil
}

// The first entries of the tab10 palette.
var palette = []color.Color{
	color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.NRGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

func paletteColor(i int) color.Color {
	return palette[i%len(palette)]
}

// Series is one set of bars, one value per category. NaN leaves a gap.
type Series struct {
	Label  string
	Values []float64
	Color  color.Color
}

// Annotation is a text label centered on a category, with its baseline at Y.
type Annotation struct {
	Category int
	Y        float64
	Text     string
}

// BarChart describes a (grouped) bar chart independently of the backend.
type BarChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
	// CategoryColors colors bars by category instead of by series.
	CategoryColors []color.Color
	ZeroLine       bool
	Annotations    []Annotation

	Width    vg.Length
	Height   vg.Length
	BarWidth vg.Length
}

func (c *BarChart) barColor(series, category int) color.Color {
	if category < len(c.CategoryColors) && c.CategoryColors[category] != nil {
		return c.CategoryColors[category]
	}
	if s := c.Series[series]; s.Color != nil {
		return s.Color
	}
	return paletteColor(series)
}

func orDefault(v, def vg.Length) vg.Length {
	if v > 0 {
		return v
	}
	return def
}

// Plot builds the gonum plot for the chart.
func (c *BarChart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Width = vg.Points(0.5)
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	p.Add(grid)

	barWidth := orDefault(c.BarWidth, vg.Points(defaultBarWidth))
	n := len(c.Series)
	for j, s := range c.Series {
		if len(s.Values) != len(c.Categories) {
			return nil, fmt.Errorf("series %q has %d values for %d categories", s.Label, len(s.Values), len(c.Categories))
		}
		offset := (vg.Length(j) - vg.Length(n-1)/2) * barWidth

		// One bar chart per present value: gonum rejects NaN heights.
		var first *plotter.BarChart
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
			if err != nil {
				return nil, fmt.Errorf("bar %s/%s: %w", s.Label, c.Categories[i], err)
			}
			bar.XMin = float64(i)
			bar.Offset = offset
			bar.Color = c.barColor(j, i)
			p.Add(bar)
			if first == nil {
				first = bar
			}
		}
		if s.Label != "" && first != nil {
			p.Legend.Add(s.Label, first)
		}
	}
	p.Legend.Top = true

	xmin, xmax := -0.5, math.Max(float64(len(c.Categories)), 1)-0.5
	if c.ZeroLine {
		line, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: 0}, {X: xmax, Y: 0}})
		if err != nil {
			return nil, fmt.Errorf("zero line: %w", err)
		}
		line.LineStyle.Width = vg.Points(0.8)
		line.LineStyle.Color = color.Black
		p.Add(line)
	}

	if len(c.Annotations) > 0 {
		labels, err := c.annotationLabels()
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	if len(c.Categories) > 0 {
		p.NominalX(c.Categories...)
	}
	p.X.Min, p.X.Max = xmin, xmax
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	if p.Y.Max < 0 {
		p.Y.Max = 0
	}
	return p, nil
}

func (c *BarChart) annotationLabels() (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(c.Annotations))
	texts := make([]string, len(c.Annotations))
	for i, a := range c.Annotations {
		xys[i] = plotter.XY{X: float64(a.Category), Y: a.Y}
		texts[i] = a.Text
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
		labels.TextStyle[i].Font.Weight = xfont.WeightBold
	}
	return labels, nil
}

// Save renders the chart to path; the format follows the file extension.
func (c *BarChart) Save(path string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	w := orDefault(c.Width, defaultWidth*vg.Inch)
	h := orDefault(c.Height, defaultHeight*vg.Inch)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

var chartRoles = []string{models.RoleGeneralist, models.RoleSpecialist}

// AccuracyChart builds the grouped accuracy chart: one bar per role and
// family, families in alphabetical order.
func AccuracyChart(summary models.Summary) *BarChart {
	families := summary.Families()
	caser := cases.Title(language.English)

	chart := &BarChart{
		Title:      "Generalist vs specialist accuracy per modulation family",
		YLabel:     "Accuracy (%)",
		Categories: families,
	}
	for j, role := range chartRoles {
		values := make([]float64, len(families))
		for i, family := range families {
			values[i] = math.NaN()
			if acc, ok := summary.Accuracy(family, role); ok {
				values[i] = acc * 100.0
			}
		}
		chart.Series = append(chart.Series, Series{
			Label:  caser.String(role),
			Values: values,
			Color:  paletteColor(j),
		})
	}
	return chart
}

// GainChart builds the specialist-minus-generalist chart in percentage
// points. Families missing either role are left as gaps.
func GainChart(summary models.Summary) *BarChart {
	families := summary.Families()

	gains := make([]float64, len(families))
	for i, family := range families {
		gains[i] = math.NaN()
		if g, ok := summary.Gain(family); ok {
			gains[i] = g
		}
	}

	return &BarChart{
		Title:      "Accuracy delta (specialist - generalist) per family",
		YLabel:     "Specialist gain (pp)",
		Categories: families,
		Series:     []Series{{Values: gains, Color: paletteColor(0)}},
		ZeroLine:   true,
	}
}

// ChartPath returns the output path of a chart in dir with the given format.
func ChartPath(dir, name, format string) string {
	return filepath.Join(dir, name+"."+strings.ToLower(format))
}

// PlotAccuracy saves AccuracyChart to dir/specialization_gain_vs_generalist.<format>.
func PlotAccuracy(summary models.Summary, dir, format string) (string, error) {
	path := ChartPath(dir, AccuracyChartName, format)
	return path, AccuracyChart(summary).Save(path)
}

// PlotGain saves GainChart to dir/family_confusion_deltas.<format>.
func PlotGain(summary models.Summary, dir, format string) (string, error) {
	path := ChartPath(dir, GainChartName, format)
	return path, GainChart(summary).Save(path)
}
