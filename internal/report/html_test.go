package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coverage-pipeline/internal/model"
)

func fptr(v float64) *float64 { return &v }

func sampleResult() model.AnalysisResult {
	rows := []model.MergedCountryRow{
		{Country: "Ghana", ISO3: "GHA", Status: model.StatusOnTrack, ANC4: fptr(88), SBA: fptr(92), Births2022: 900},
		{Country: "Chad", ISO3: "TCD", Status: model.StatusOffTrack, ANC4: fptr(31), SBA: fptr(40), Births2022: 650},
	}
	return model.AnalysisResult{
		Merged: rows,
		Summaries: []model.CoverageSummary{
			{Indicator: model.IndicatorANC4, TrackStatus: model.StatusOnTrack, NCountries: 1, TotalBirths: 900, WeightedCoverage: 88, MinCoverage: 88, MaxCoverage: 88, MedianCoverage: 88},
			{Indicator: model.IndicatorANC4, TrackStatus: model.StatusOffTrack, NCountries: 1, TotalBirths: 650, WeightedCoverage: 31, MinCoverage: 31, MaxCoverage: 31, MedianCoverage: 31},
			{Indicator: model.IndicatorSBA, TrackStatus: model.StatusOnTrack, NCountries: 1, TotalBirths: 900, WeightedCoverage: 92, MinCoverage: 92, MaxCoverage: 92, MedianCoverage: 92},
			{Indicator: model.IndicatorSBA, TrackStatus: model.StatusOffTrack, NCountries: 1, TotalBirths: 650, WeightedCoverage: 40, MinCoverage: 40, MaxCoverage: 40, MedianCoverage: 40},
		},
		Gaps: []model.CoverageGap{
			{Indicator: model.IndicatorANC4, Gap: 57, RelativeDiff: 183.9},
			{Indicator: model.IndicatorSBA, Gap: 52, RelativeDiff: 130},
		},
		Warnings: []string{"iso3 column not found in track-status workbook"},
	}
}

func TestRenderHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	err := RenderHTML(sampleResult(), "../figures/coverage.png", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "Maternal Health Coverage Analysis")
	assert.Contains(t, html, "../figures/coverage.png")
	assert.Contains(t, html, "Antenatal Care (4+ visits)")
	assert.Contains(t, html, "Skilled Birth Attendance")
	assert.Contains(t, html, "57.0 percentage points")
	assert.Contains(t, html, "iso3 column not found")
}

func TestRenderHTMLWithoutGap(t *testing.T) {
	result := sampleResult()
	result.Gaps = nil

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, RenderHTML(result, "", path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Gap undefined")
}

func TestInterpretGapBands(t *testing.T) {
	assert.Contains(t, interpretGap(25), "Large")
	assert.Contains(t, interpretGap(15), "Moderate")
	assert.Contains(t, interpretGap(5), "small")
}
