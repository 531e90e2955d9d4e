package store

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coverage-pipeline/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
}

func TestRunLifecycle(t *testing.T) {
	initTestDB(t)

	spec := model.AnalysisSpec{OutputDir: "out"}
	require.NoError(t, SaveRun("run-1", spec))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, model.RunPending, run.Status)
	assert.Equal(t, "out", run.Spec.OutputDir)

	require.NoError(t, UpdateRunStatus("run-1", model.RunCompleted))
	run, err = GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, run.Status)

	runs, err := ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunErrorsRoundTrip(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1", model.AnalysisSpec{}))

	require.NoError(t, SaveRunError("run-1", errors.New("ingest failed")))
	require.NoError(t, SaveRunError("run-1", nil)) // nil errors are ignored

	errs, err := GetRunErrors("run-1")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "ingest failed", errs[0]["message"])
}

func TestMergedRowsRoundTrip(t *testing.T) {
	initTestDB(t)

	anc4 := 60.5
	rows := []model.MergedCountryRow{
		{Country: "Ghana", ISO3: "GHA", Status: model.StatusOnTrack, ANC4: &anc4, SBA: nil, Births2022: 900},
	}
	require.NoError(t, SaveMergedRows("run-1", rows))

	got, err := GetMergedRows("run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ghana", got[0].Country)
	assert.Equal(t, model.StatusOnTrack, got[0].Status)
	require.NotNil(t, got[0].ANC4)
	assert.Equal(t, 60.5, *got[0].ANC4)
	assert.Nil(t, got[0].SBA)
}

func TestSummariesRoundTripNaN(t *testing.T) {
	initTestDB(t)

	summaries := []model.CoverageSummary{
		{
			Indicator: model.IndicatorANC4, TrackStatus: model.StatusOnTrack,
			NCountries: 2, TotalBirths: 400, WeightedCoverage: 65,
			MinCoverage: 20, MaxCoverage: 80, MedianCoverage: 50,
		},
		{
			// Empty-group sentinel: NaN everywhere.
			Indicator: model.IndicatorSBA, TrackStatus: model.StatusOffTrack,
			TotalBirths: math.NaN(), WeightedCoverage: math.NaN(),
			MinCoverage: math.NaN(), MaxCoverage: math.NaN(), MedianCoverage: math.NaN(),
		},
	}
	require.NoError(t, SaveSummaries("run-1", summaries))

	got, err := GetSummaries("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 65.0, got[0].WeightedCoverage)
	assert.True(t, math.IsNaN(got[1].WeightedCoverage))
	assert.True(t, math.IsNaN(got[1].TotalBirths))
	assert.Equal(t, 0, got[1].NCountries)
}

func TestSaveSummariesReplacesPriorRows(t *testing.T) {
	initTestDB(t)

	first := []model.CoverageSummary{{Indicator: model.IndicatorANC4, TrackStatus: model.StatusOnTrack, NCountries: 1}}
	require.NoError(t, SaveSummaries("run-1", first))
	require.NoError(t, SaveSummaries("run-1", first))

	got, err := GetSummaries("run-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
