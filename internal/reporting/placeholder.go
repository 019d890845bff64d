package reporting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Illustrative numbers used before real runs are available.
var (
	placeholderFamilies   = []string{"PSK", "QAM", "Analog"}
	placeholderGeneralist = []float64{85.2, 82.1, 78.9}
	placeholderSpecialist = []float64{88.6, 84.2, 83.6}
)

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

// PlaceholderCharts returns the accuracy and gain charts drawn from fixed
// illustrative numbers, annotated with the per-family gain.
func PlaceholderCharts() (accuracy, gain *BarChart) {
	const alpha = 0xcc

	gains := make([]float64, len(placeholderFamilies))
	for i := range gains {
		gains[i] = placeholderSpecialist[i] - placeholderGeneralist[i]
	}

	accuracy = &BarChart{
		Title:      "Generalist vs Specialist Accuracy per Modulation Family",
		XLabel:     "Modulation Family",
		YLabel:     "Accuracy (%)",
		Categories: placeholderFamilies,
		Series: []Series{
			{Label: "Generalist", Values: placeholderGeneralist, Color: withAlpha(paletteColor(0), alpha)},
			{Label: "Specialist", Values: placeholderSpecialist, Color: withAlpha(paletteColor(1), alpha)},
		},
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
	}
	for i, g := range gains {
		accuracy.Annotations = append(accuracy.Annotations, Annotation{
			Category: i,
			Y:        placeholderSpecialist[i] + 1.5,
			Text:     fmt.Sprintf("%+.1fpp", g),
		})
	}

	gain = &BarChart{
		Title:      "Accuracy Delta (Specialist - Generalist) per Family",
		XLabel:     "Modulation Family",
		YLabel:     "Specialist Gain (percentage points)",
		Categories: placeholderFamilies,
		Series:     []Series{{Values: gains}},
		ZeroLine:   true,
		Width:      8 * vg.Inch,
		Height:     5 * vg.Inch,
	}
	for i := range placeholderFamilies {
		gain.CategoryColors = append(gain.CategoryColors, withAlpha(paletteColor(i), alpha))
	}
	for i, g := range gains {
		gain.Annotations = append(gain.Annotations, Annotation{
			Category: i,
			Y:        g + 0.1,
			Text:     fmt.Sprintf("%.1f", g),
		})
	}
	return accuracy, gain
}

// WritePlaceholders saves the placeholder charts under dir using the
// regular chart file names.
func WritePlaceholders(dir, format string) ([]string, error) {
	accuracy, gain := PlaceholderCharts()

	paths := []string{
		ChartPath(dir, AccuracyChartName, format),
		ChartPath(dir, GainChartName, format),
	}
	if err := accuracy.Save(paths[0]); err != nil {
		return nil, err
	}
	if err := gain.Save(paths[1]); err != nil {
		return nil, err
	}
	return paths, nil
}
