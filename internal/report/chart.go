package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"health-coverage-pipeline/internal/model"
)

// RenderChart draws the grouped bar chart of births-weighted coverage per
// indicator and track status and saves it as a PNG. Empty groups render as
// zero-height bars.
func RenderChart(result model.AnalysisResult, path string) error {
	p := plot.New()
	p.Title.Text = "Maternal Health Coverage: On-track vs Off-track Countries"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Births-weighted coverage (%)"
	p.Y.Min, p.Y.Max = 0, 105

	onValues := make(plotter.Values, len(model.Indicators))
	offValues := make(plotter.Values, len(model.Indicators))
	labels := make([]string, len(model.Indicators))
	for i, ind := range model.Indicators {
		labels[i] = string(ind)
		if s, ok := result.SummaryFor(ind, model.StatusOnTrack); ok && !math.IsNaN(s.WeightedCoverage) {
			onValues[i] = s.WeightedCoverage
		}
		if s, ok := result.SummaryFor(ind, model.StatusOffTrack); ok && !math.IsNaN(s.WeightedCoverage) {
			offValues[i] = s.WeightedCoverage
		}
	}

	width := vg.Points(28)

	onBars, err := plotter.NewBarChart(onValues, width)
	if err != nil {
		return fmt.Errorf("failed to build on-track bars: %w", err)
	}
	onBars.LineStyle.Width = vg.Length(0)
	onBars.Color = color.RGBA{R: 46, G: 134, B: 171, A: 255}
	onBars.Offset = -width / 2

	offBars, err := plotter.NewBarChart(offValues, width)
	if err != nil {
		return fmt.Errorf("failed to build off-track bars: %w", err)
	}
	offBars.LineStyle.Width = vg.Length(0)
	offBars.Color = color.RGBA{R: 231, G: 111, B: 81, A: 255}
	offBars.Offset = width / 2

	p.Add(onBars, offBars)
	p.Legend.Add("On-track", onBars)
	p.Legend.Add("Off-track", offBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
