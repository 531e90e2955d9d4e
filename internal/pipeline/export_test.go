package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coverage-pipeline/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportMergedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "merged.csv")
	rows := []model.MergedCountryRow{
		{Country: "Ghana", ISO3: "GHA", Status: model.StatusOnTrack, ANC4: fptr(88), SBA: nil, Births2022: 900},
	}

	n, err := ExportMergedCSV(path, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records := readCSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"country", "iso3", "status", "anc4", "sba", "births_2022"}, records[0])
	assert.Equal(t, []string{"Ghana", "GHA", "on-track", "88", "", "900"}, records[1])
}

func TestExportSummaryCSVIncludesGapRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	summaries := []model.CoverageSummary{
		{Indicator: model.IndicatorANC4, TrackStatus: model.StatusOnTrack, NCountries: 1, TotalBirths: 900, WeightedCoverage: 88, MinCoverage: 88, MaxCoverage: 88, MedianCoverage: 88},
		{
			Indicator: model.IndicatorANC4, TrackStatus: model.StatusOffTrack,
			TotalBirths: math.NaN(), WeightedCoverage: math.NaN(),
			MinCoverage: math.NaN(), MaxCoverage: math.NaN(), MedianCoverage: math.NaN(),
		},
	}
	gaps := []model.CoverageGap{{Indicator: model.IndicatorSBA, Gap: 52}}

	n, err := ExportSummaryCSV(path, summaries, gaps)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records := readCSV(t, path)
	require.Len(t, records, 4)

	// NaN sentinel renders as empty cells.
	assert.Equal(t, []string{"ANC4", "off-track", "0", "", "", "", "", ""}, records[2])
	// Gap rows use the synthetic "gap" status.
	assert.Equal(t, "gap", records[3][1])
	assert.Equal(t, "52", records[3][4])
}

func TestExportResultJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	result := model.AnalysisResult{
		Merged: []model.MergedCountryRow{
			{Country: "Ghana", Status: model.StatusOnTrack, ANC4: fptr(88), Births2022: 900},
		},
		Summaries: []model.CoverageSummary{
			{
				Indicator: model.IndicatorANC4, TrackStatus: model.StatusOffTrack,
				TotalBirths: math.NaN(), WeightedCoverage: math.NaN(),
				MinCoverage: math.NaN(), MaxCoverage: math.NaN(), MedianCoverage: math.NaN(),
			},
		},
	}

	require.NoError(t, ExportResultJSON(path, "run-1", result))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload struct {
		ExportInfo struct {
			RunID    string `json:"run_id"`
			RowCount int    `json:"row_count"`
		} `json:"export_info"`
		Result struct {
			Summaries []map[string]interface{} `json:"summaries"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "run-1", payload.ExportInfo.RunID)
	assert.Equal(t, 1, payload.ExportInfo.RowCount)

	// The NaN sentinel must serialize as null, not break encoding.
	require.Len(t, payload.Result.Summaries, 1)
	assert.Nil(t, payload.Result.Summaries[0]["weighted_coverage"])
}
