package ingest

import (
	"errors"
	"fmt"
	"strings"

	"health-coverage-pipeline/internal/model"
	"health-coverage-pipeline/pkg/utils"
)

// ErrMissingColumn signals that a required column could not be located by
// its expected name patterns. Extraction then yields an empty table and a
// wrapped warning; the pipeline continues and the affected merge stage
// produces zero rows instead of crashing.
var ErrMissingColumn = errors.New("required column not found")

func missingColumn(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, what)
}

// FindColumn locates the first header matching any of the given
// case-insensitive substrings.
func (t *Table) FindColumn(substrings ...string) (int, bool) {
	for _, want := range substrings {
		want = strings.ToLower(want)
		for i, h := range t.Headers {
			if strings.Contains(strings.ToLower(h), want) {
				return i, true
			}
		}
	}
	return -1, false
}

// countryColumn finds the country name column, falling back to the first
// column when nothing obviously matches.
func (t *Table) countryColumn() int {
	if col, ok := t.FindColumn("country", "region", "area"); ok {
		return col
	}
	return 0
}

// HealthObservations maps a raw UNICEF indicator table to typed long-format
// observations. Rows without a usable country, year or numeric value are
// dropped here; malformed-but-present data counts as a coercion loss,
// not an error.
func HealthObservations(t *Table) ([]model.HealthObservation, []error) {
	var warnings []error

	indicatorCol, ok := t.FindColumn("indicator")
	if !ok {
		return nil, append(warnings, missingColumn("indicator"))
	}
	yearCol, ok := t.FindColumn("time_period", "year")
	if !ok {
		return nil, append(warnings, missingColumn("year"))
	}
	valueCol, ok := t.FindColumn("obs_value", "value")
	if !ok {
		return nil, append(warnings, missingColumn("observation value"))
	}
	countryCol := t.countryColumn()

	var obs []model.HealthObservation
	for _, row := range t.Rows {
		country := strings.TrimSpace(t.Cell(row, countryCol))
		if country == "" {
			continue
		}
		year, ok := utils.ParseYear(t.Cell(row, yearCol))
		if !ok {
			continue
		}
		value := utils.NullableFloat(t.Cell(row, valueCol))
		if value == nil {
			continue
		}
		obs = append(obs, model.HealthObservation{
			Country:   country,
			Indicator: strings.TrimSpace(t.Cell(row, indicatorCol)),
			Year:      year,
			Value:     *value,
		})
	}
	return obs, warnings
}

// PopulationRows maps a raw UN WPP demographic table to typed rows. The
// births column is located by case-insensitive substring match; its absence
// is a usage condition reported upward, not a silent skip.
func PopulationRows(t *Table) ([]model.PopulationRow, []error) {
	var warnings []error

	birthsCol, ok := t.FindColumn("births")
	if !ok {
		return nil, append(warnings, missingColumn("births"))
	}
	yearCol, ok := t.FindColumn("year")
	if !ok {
		return nil, append(warnings, missingColumn("year"))
	}
	countryCol := t.countryColumn()

	var rows []model.PopulationRow
	for _, row := range t.Rows {
		country := strings.TrimSpace(t.Cell(row, countryCol))
		if country == "" {
			continue
		}
		year, ok := utils.ParseYear(t.Cell(row, yearCol))
		if !ok {
			continue
		}
		rows = append(rows, model.PopulationRow{
			Country: country,
			Year:    year,
			Births:  utils.NullableFloat(t.Cell(row, birthsCol)),
		})
	}
	return rows, warnings
}

// MortalityRows maps the track-status workbook to typed rows. A blank
// status cell stays blank; classification downstream leaves such rows
// unlabeled rather than guessing.
func MortalityRows(t *Table) ([]model.MortalityRow, []error) {
	var warnings []error

	nameCol, ok := t.FindColumn("officialname", "official name", "country")
	if !ok {
		return nil, append(warnings, missingColumn("official name"))
	}
	statusCol, ok := t.FindColumn("status")
	if !ok {
		return nil, append(warnings, missingColumn("status"))
	}
	iso3Col, hasISO3 := t.FindColumn("iso3")
	if !hasISO3 {
		warnings = append(warnings, missingColumn("iso3"))
	}

	var rows []model.MortalityRow
	for _, row := range t.Rows {
		name := strings.TrimSpace(t.Cell(row, nameCol))
		if name == "" {
			continue
		}
		r := model.MortalityRow{
			OfficialName: name,
			RawStatus:    strings.TrimSpace(t.Cell(row, statusCol)),
		}
		if hasISO3 {
			r.ISO3 = strings.TrimSpace(t.Cell(row, iso3Col))
		}
		rows = append(rows, r)
	}
	return rows, warnings
}
