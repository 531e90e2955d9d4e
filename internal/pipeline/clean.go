package pipeline

import (
	"sort"
	"strings"

	"health-coverage-pipeline/internal/model"
)

// CleanHealth reduces the long-format UNICEF observations to one wide row
// per country:
//
//  1. keep observations inside the target year window,
//  2. relabel indicators by substring match (others are discarded),
//  3. per (country, indicator) keep the most recent year, ties resolved to
//     the last record encountered in input order,
//  4. pivot to one nullable ANC4/SBA pair per country.
//
// A country row exists only when at least one indicator survived.
func CleanHealth(obs []model.HealthObservation, years model.YearRange, patterns model.IndicatorPatterns) []model.HealthRecord {
	type key struct {
		country   string
		indicator model.Indicator
	}

	// Stable sort by year so that within equal years the original input
	// order decides, matching a "last after sort-by-year" reduction.
	kept := make([]model.HealthObservation, 0, len(obs))
	for _, o := range obs {
		if years.Contains(o.Year) {
			kept = append(kept, o)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Year < kept[j].Year })

	latest := make(map[key]float64)
	seen := make(map[string]bool)
	var order []string
	for _, o := range kept {
		var ind model.Indicator
		switch {
		case strings.Contains(o.Indicator, patterns.ANC4):
			ind = model.IndicatorANC4
		case strings.Contains(o.Indicator, patterns.SBA):
			ind = model.IndicatorSBA
		default:
			continue
		}
		latest[key{o.Country, ind}] = o.Value
		if !seen[o.Country] {
			seen[o.Country] = true
			order = append(order, o.Country)
		}
	}

	// Output sorted by country for deterministic downstream tables.
	sort.Strings(order)
	records := make([]model.HealthRecord, 0, len(order))
	for _, country := range order {
		rec := model.HealthRecord{Country: country}
		if v, ok := latest[key{country, model.IndicatorANC4}]; ok {
			anc4 := v
			rec.ANC4 = &anc4
		}
		if v, ok := latest[key{country, model.IndicatorSBA}]; ok {
			sba := v
			rec.SBA = &sba
		}
		if rec.ANC4 == nil && rec.SBA == nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// CleanPopulation keeps the reference-year rows that carry a numeric
// births value. Duplicate country rows for the reference year all survive;
// the merge stage will then emit duplicate merged rows, a documented edge
// case of the source data.
func CleanPopulation(rows []model.PopulationRow, referenceYear int) []model.PopulationRecord {
	records := make([]model.PopulationRecord, 0, len(rows))
	for _, r := range rows {
		if r.Year != referenceYear || r.Births == nil {
			continue
		}
		records = append(records, model.PopulationRecord{
			Country:    r.Country,
			Births2022: *r.Births,
		})
	}
	return records
}

// ClassifyStatus maps raw track-status text to the binary label. Blank
// text stays unclassified (zero value). "achieved" and "on-track" compare
// case-insensitively; every other non-blank text, including "acceleration
// needed" and unrecognized categories, falls to off-track. Off-track is
// the deliberate default bucket, not an error.
func ClassifyStatus(raw string) model.TrackStatus {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch strings.ToLower(raw) {
	case "achieved", "on-track":
		return model.StatusOnTrack
	}
	return model.StatusOffTrack
}

// CleanMortality classifies each row's status. Unclassified rows pass
// through with the zero status; they survive the merge but never match a
// labeled group, so the aggregator (which queries only the two known
// labels) never counts them.
func CleanMortality(rows []model.MortalityRow) []model.MortalityRecord {
	records := make([]model.MortalityRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.MortalityRecord{
			Country: r.OfficialName,
			ISO3:    r.ISO3,
			Status:  ClassifyStatus(r.RawStatus),
		})
	}
	return records
}
