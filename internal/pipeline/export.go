package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"health-coverage-pipeline/internal/model"
)

// ExportMergedCSV writes the merged country table to a CSV file and
// returns the number of rows written.
func ExportMergedCSV(path string, rows []model.MergedCountryRow) (int, error) {
	file, err := createWithDir(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"country", "iso3", "status", "anc4", "sba", "births_2022"}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		record := []string{
			row.Country,
			row.ISO3,
			string(row.Status),
			formatNullable(row.ANC4),
			formatNullable(row.SBA),
			formatFloat(row.Births2022),
		}
		if err := writer.Write(record); err != nil {
			return i, fmt.Errorf("failed to write row: %w", err)
		}
	}
	return len(rows), nil
}

// ExportSummaryCSV writes the coverage summaries plus one gap row per
// indicator (track_status column "gap") and returns the row count.
func ExportSummaryCSV(path string, summaries []model.CoverageSummary, gaps []model.CoverageGap) (int, error) {
	file, err := createWithDir(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"indicator", "track_status", "n_countries", "total_births",
		"weighted_coverage", "min_coverage", "max_coverage", "median_coverage",
	}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	count := 0
	for _, s := range summaries {
		record := []string{
			string(s.Indicator),
			string(s.TrackStatus),
			strconv.Itoa(s.NCountries),
			formatFloat(s.TotalBirths),
			formatFloat(s.WeightedCoverage),
			formatFloat(s.MinCoverage),
			formatFloat(s.MaxCoverage),
			formatFloat(s.MedianCoverage),
		}
		if err := writer.Write(record); err != nil {
			return count, fmt.Errorf("failed to write row: %w", err)
		}
		count++
	}
	for _, g := range gaps {
		record := []string{string(g.Indicator), "gap", "", "", formatFloat(g.Gap), "", "", ""}
		if err := writer.Write(record); err != nil {
			return count, fmt.Errorf("failed to write gap row: %w", err)
		}
		count++
	}
	return count, nil
}

// ExportResultJSON writes the full analysis result with export metadata.
func ExportResultJSON(path, runID string, result model.AnalysisResult) error {
	file, err := createWithDir(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	payload := map[string]interface{}{
		"export_info": map[string]interface{}{
			"run_id":      runID,
			"exported_at": time.Now().UTC(),
			"row_count":   len(result.Merged),
		},
		"result": result,
	}
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func createWithDir(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// formatFloat renders a float for CSV; NaN becomes an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNullable(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
