package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coverage-pipeline/internal/model"
)

var testYears = model.YearRange{From: 2018, To: 2022}

var testPatterns = model.IndicatorPatterns{
	ANC4: "Antenatal care 4+",
	SBA:  "Skilled birth attendant",
}

func anc4Obs(country string, year int, value float64) model.HealthObservation {
	return model.HealthObservation{
		Country:   country,
		Indicator: "Antenatal care 4+ visits - percentage of women",
		Year:      year,
		Value:     value,
	}
}

func sbaObs(country string, year int, value float64) model.HealthObservation {
	return model.HealthObservation{
		Country:   country,
		Indicator: "Skilled birth attendant - percentage of deliveries",
		Year:      year,
		Value:     value,
	}
}

func TestCleanHealthKeepsMostRecentYear(t *testing.T) {
	obs := []model.HealthObservation{
		anc4Obs("Ghana", 2019, 50),
		anc4Obs("Ghana", 2021, 60),
		anc4Obs("Ghana", 2020, 55),
	}

	records := CleanHealth(obs, testYears, testPatterns)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ANC4)
	assert.Equal(t, 60.0, *records[0].ANC4)
	assert.Nil(t, records[0].SBA)
}

func TestCleanHealthTieKeepsLastEncountered(t *testing.T) {
	obs := []model.HealthObservation{
		anc4Obs("Ghana", 2021, 55),
		anc4Obs("Ghana", 2021, 65),
	}

	records := CleanHealth(obs, testYears, testPatterns)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ANC4)
	assert.Equal(t, 65.0, *records[0].ANC4)
}

func TestCleanHealthFiltersYearRange(t *testing.T) {
	obs := []model.HealthObservation{
		anc4Obs("Ghana", 2016, 40), // before the window
		anc4Obs("Ghana", 2023, 90), // after the window
		anc4Obs("Ghana", 2018, 45),
	}

	records := CleanHealth(obs, testYears, testPatterns)
	require.Len(t, records, 1)
	assert.Equal(t, 45.0, *records[0].ANC4)
}

func TestCleanHealthDiscardsOtherIndicators(t *testing.T) {
	obs := []model.HealthObservation{
		{Country: "Ghana", Indicator: "Under-five mortality rate", Year: 2021, Value: 45},
	}
	assert.Empty(t, CleanHealth(obs, testYears, testPatterns))
}

func TestCleanHealthPivotsWide(t *testing.T) {
	obs := []model.HealthObservation{
		anc4Obs("Ghana", 2020, 70),
		sbaObs("Ghana", 2021, 80),
		sbaObs("Chad", 2019, 30),
	}

	records := CleanHealth(obs, testYears, testPatterns)
	require.Len(t, records, 2)

	// Output is sorted by country.
	assert.Equal(t, "Chad", records[0].Country)
	assert.Nil(t, records[0].ANC4)
	assert.Equal(t, 30.0, *records[0].SBA)

	assert.Equal(t, "Ghana", records[1].Country)
	assert.Equal(t, 70.0, *records[1].ANC4)
	assert.Equal(t, 80.0, *records[1].SBA)
}

func TestCleanPopulationFiltersReferenceYear(t *testing.T) {
	births := func(v float64) *float64 { return &v }
	rows := []model.PopulationRow{
		{Country: "Ghana", Year: 2021, Births: births(900)},
		{Country: "Ghana", Year: 2022, Births: births(950)},
		{Country: "Chad", Year: 2022, Births: nil}, // coercion loss, dropped
		{Country: "Mali", Year: 2022, Births: births(700)},
	}

	records := CleanPopulation(rows, 2022)
	require.Len(t, records, 2)
	assert.Equal(t, model.PopulationRecord{Country: "Ghana", Births2022: 950}, records[0])
	assert.Equal(t, model.PopulationRecord{Country: "Mali", Births2022: 700}, records[1])
}

func TestCleanPopulationKeepsDuplicateCountryRows(t *testing.T) {
	births := func(v float64) *float64 { return &v }
	rows := []model.PopulationRow{
		{Country: "Ghana", Year: 2022, Births: births(900)},
		{Country: "Ghana", Year: 2022, Births: births(910)},
	}
	assert.Len(t, CleanPopulation(rows, 2022), 2)
}

func TestClassifyStatus(t *testing.T) {
	cases := map[string]model.TrackStatus{
		"Achieved":            model.StatusOnTrack,
		"achieved":            model.StatusOnTrack,
		"On-Track":            model.StatusOnTrack,
		"on-track":            model.StatusOnTrack,
		"Acceleration Needed": model.StatusOffTrack,
		"acceleration needed": model.StatusOffTrack,
		// Unknown text falls to the default bucket, by policy.
		"Some Other Category": model.StatusOffTrack,
		"":                    "",
		"   ":                 "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, ClassifyStatus(raw), "raw status %q", raw)
	}
}

func TestCleanMortalityPassesUnclassifiedThrough(t *testing.T) {
	rows := []model.MortalityRow{
		{OfficialName: "Ghana", ISO3: "GHA", RawStatus: "Achieved"},
		{OfficialName: "Chad", ISO3: "TCD", RawStatus: ""},
	}

	records := CleanMortality(rows)
	require.Len(t, records, 2)
	assert.Equal(t, model.StatusOnTrack, records[0].Status)
	assert.Equal(t, model.TrackStatus(""), records[1].Status)
}
