package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageSummaryMarshalsNaNAsNull(t *testing.T) {
	s := CoverageSummary{
		Indicator:        IndicatorANC4,
		TrackStatus:      StatusOnTrack,
		TotalBirths:      math.NaN(),
		WeightedCoverage: math.NaN(),
		MinCoverage:      math.NaN(),
		MaxCoverage:      math.NaN(),
		MedianCoverage:   math.NaN(),
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["weighted_coverage"])
	assert.Nil(t, decoded["total_births"])
	assert.Equal(t, float64(0), decoded["n_countries"])
}

func TestCoverageSummaryMarshalsRealValues(t *testing.T) {
	s := CoverageSummary{
		Indicator:        IndicatorSBA,
		TrackStatus:      StatusOffTrack,
		NCountries:       2,
		TotalBirths:      400,
		WeightedCoverage: 65,
		MinCoverage:      20,
		MaxCoverage:      80,
		MedianCoverage:   50,
		Countries:        []string{"Chad", "Mali"},
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 65.0, decoded["weighted_coverage"])
	assert.Equal(t, "off-track", decoded["track_status"])
}

func TestAnalysisResultLookups(t *testing.T) {
	r := AnalysisResult{
		Summaries: []CoverageSummary{
			{Indicator: IndicatorANC4, TrackStatus: StatusOnTrack, NCountries: 3},
		},
		Gaps: []CoverageGap{{Indicator: IndicatorANC4, Gap: 12.5}},
	}

	s, ok := r.SummaryFor(IndicatorANC4, StatusOnTrack)
	require.True(t, ok)
	assert.Equal(t, 3, s.NCountries)

	_, ok = r.SummaryFor(IndicatorSBA, StatusOnTrack)
	assert.False(t, ok)

	g, ok := r.GapFor(IndicatorANC4)
	require.True(t, ok)
	assert.Equal(t, 12.5, g.Gap)

	_, ok = r.GapFor(IndicatorSBA)
	assert.False(t, ok)
}
