package pipeline

import (
	"math"
	"sort"

	"health-coverage-pipeline/internal/model"
)

// AggregateCoverage computes births-weighted coverage statistics for one
// (indicator, track status) group.
//
// Rows qualify when they carry the requested status and a non-null value
// for the indicator. The weighted average uses absolute births as weights,
// so a country with a projected population decline still contributes
// positive weight by magnitude. TotalBirths stays the signed sum; the
// asymmetry is intentional and preserved from the source behavior.
//
// An empty group returns the sentinel summary: zero countries, NaN for
// every numeric field, no country list. All-zero weights are guarded the
// same way instead of dividing by zero.
func AggregateCoverage(rows []model.MergedCountryRow, indicator model.Indicator, status model.TrackStatus) model.CoverageSummary {
	summary := model.CoverageSummary{
		Indicator:        indicator,
		TrackStatus:      status,
		TotalBirths:      math.NaN(),
		WeightedCoverage: math.NaN(),
		MinCoverage:      math.NaN(),
		MaxCoverage:      math.NaN(),
		MedianCoverage:   math.NaN(),
	}

	var values []float64
	var weightedSum, absWeightSum, signedSum float64
	for _, row := range rows {
		if row.Status != status {
			continue
		}
		v := row.Value(indicator)
		if v == nil {
			continue
		}
		w := math.Abs(row.Births2022)
		weightedSum += *v * w
		absWeightSum += w
		signedSum += row.Births2022
		values = append(values, *v)
		summary.Countries = append(summary.Countries, row.Country)
	}

	if len(values) == 0 || absWeightSum == 0 {
		// Zero qualifying rows, or degenerate all-zero weights: the
		// weighted-average step must never see a zero denominator.
		summary.Countries = nil
		return summary
	}
	summary.NCountries = len(values)

	summary.TotalBirths = signedSum
	summary.WeightedCoverage = weightedSum / absWeightSum
	summary.MinCoverage = minOf(values)
	summary.MaxCoverage = maxOf(values)
	summary.MedianCoverage = medianOf(values)
	return summary
}

// Summarize computes the full summary set: one row per (indicator, status)
// pair plus a gap row per indicator when both groups are populated.
func Summarize(rows []model.MergedCountryRow) ([]model.CoverageSummary, []model.CoverageGap) {
	var summaries []model.CoverageSummary
	var gaps []model.CoverageGap

	for _, ind := range model.Indicators {
		byStatus := make(map[model.TrackStatus]model.CoverageSummary, len(model.TrackStatuses))
		for _, status := range model.TrackStatuses {
			s := AggregateCoverage(rows, ind, status)
			byStatus[status] = s
			summaries = append(summaries, s)
		}

		on, off := byStatus[model.StatusOnTrack], byStatus[model.StatusOffTrack]
		if on.NCountries == 0 || off.NCountries == 0 {
			continue
		}
		gap := model.CoverageGap{
			Indicator: ind,
			Gap:       on.WeightedCoverage - off.WeightedCoverage,
		}
		if off.WeightedCoverage != 0 {
			gap.RelativeDiff = gap.Gap / off.WeightedCoverage * 100
		}
		gaps = append(gaps, gap)
	}
	return summaries, gaps
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
