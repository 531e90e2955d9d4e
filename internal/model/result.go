package model

import (
	"encoding/json"
	"math"
)

// CoverageSummary holds births-weighted coverage statistics for one
// (indicator, track status) group. Numeric fields are NaN and Countries is
// empty when no country fell into the group. TotalBirths is the signed sum
// of the group's births while the weighted average uses absolute weights,
// so TotalBirths can be negative or smaller than the weighting denominator.
type CoverageSummary struct {
	Indicator        Indicator   `json:"indicator"`
	TrackStatus      TrackStatus `json:"track_status"`
	NCountries       int         `json:"n_countries"`
	TotalBirths      float64     `json:"total_births"`
	WeightedCoverage float64     `json:"weighted_coverage"`
	MinCoverage      float64     `json:"min_coverage"`
	MaxCoverage      float64     `json:"max_coverage"`
	MedianCoverage   float64     `json:"median_coverage"`
	Countries        []string    `json:"countries"`
}

// MarshalJSON renders NaN sentinel fields as null; encoding/json rejects
// NaN outright.
func (s CoverageSummary) MarshalJSON() ([]byte, error) {
	nullable := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Indicator        Indicator   `json:"indicator"`
		TrackStatus      TrackStatus `json:"track_status"`
		NCountries       int         `json:"n_countries"`
		TotalBirths      *float64    `json:"total_births"`
		WeightedCoverage *float64    `json:"weighted_coverage"`
		MinCoverage      *float64    `json:"min_coverage"`
		MaxCoverage      *float64    `json:"max_coverage"`
		MedianCoverage   *float64    `json:"median_coverage"`
		Countries        []string    `json:"countries"`
	}{
		Indicator:        s.Indicator,
		TrackStatus:      s.TrackStatus,
		NCountries:       s.NCountries,
		TotalBirths:      nullable(s.TotalBirths),
		WeightedCoverage: nullable(s.WeightedCoverage),
		MinCoverage:      nullable(s.MinCoverage),
		MaxCoverage:      nullable(s.MaxCoverage),
		MedianCoverage:   nullable(s.MedianCoverage),
		Countries:        s.Countries,
	})
}

// CoverageGap is the on-track minus off-track weighted coverage for one
// indicator. A gap row exists only when both sides had at least one country.
type CoverageGap struct {
	Indicator    Indicator `json:"indicator"`
	Gap          float64   `json:"gap"`                     // percentage points
	RelativeDiff float64   `json:"relative_diff,omitempty"` // gap as % of the off-track coverage
}

// AnalysisResult is everything one pipeline run produces for downstream
// consumers: the merged country table, the per-group summaries and the
// per-indicator gaps. Computed fresh each run, never mutated afterwards.
type AnalysisResult struct {
	Merged    []MergedCountryRow `json:"merged"`
	Summaries []CoverageSummary  `json:"summaries"`
	Gaps      []CoverageGap      `json:"gaps"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// SummaryFor returns the summary for one (indicator, status) pair.
func (r AnalysisResult) SummaryFor(ind Indicator, status TrackStatus) (CoverageSummary, bool) {
	for _, s := range r.Summaries {
		if s.Indicator == ind && s.TrackStatus == status {
			return s, true
		}
	}
	return CoverageSummary{}, false
}

// GapFor returns the gap row for one indicator when both groups were
// non-empty.
func (r AnalysisResult) GapFor(ind Indicator) (CoverageGap, bool) {
	for _, g := range r.Gaps {
		if g.Indicator == ind {
			return g, true
		}
	}
	return CoverageGap{}, false
}
