package pipeline

import "health-coverage-pipeline/internal/model"

// Merge normalizes and filters the three cleaned tables independently with
// the shared synonym map, then inner-joins them on canonical country name:
// mortality → health first, the result → population second. Only countries
// present in all three sources survive, so the row count is monotonically
// non-increasing through each join. Inputs are not mutated.
//
// Two distinct raw names mapping to the same canonical name coalesce
// silently into one logical country: the later row wins the join map slot.
// That is intentional deduplication via canonicalization; no conflict
// error is raised. Duplicate population rows for one country are preserved
// and produce one merged row each.
func Merge(
	mortality []model.MortalityRecord,
	health []model.HealthRecord,
	population []model.PopulationRecord,
	synonyms map[string]string,
) []model.MergedCountryRow {
	// Coalesce mortality rows by canonical name, keeping first-seen order
	// and last-seen values.
	var countries []string
	mortalityByCountry := make(map[string]model.MortalityRecord)
	for _, m := range FilterIndividualCountries(normalizeMortality(mortality, synonyms), mortalityName) {
		if _, ok := mortalityByCountry[m.Country]; !ok {
			countries = append(countries, m.Country)
		}
		mortalityByCountry[m.Country] = m
	}

	healthByCountry := make(map[string]model.HealthRecord)
	for _, h := range FilterIndividualCountries(normalizeHealth(health, synonyms), healthName) {
		healthByCountry[h.Country] = h
	}

	populationByCountry := make(map[string][]model.PopulationRecord)
	for _, p := range FilterIndividualCountries(normalizePopulation(population, synonyms), populationName) {
		populationByCountry[p.Country] = append(populationByCountry[p.Country], p)
	}

	var merged []model.MergedCountryRow
	for _, country := range countries {
		m := mortalityByCountry[country]
		h, ok := healthByCountry[country]
		if !ok {
			continue
		}
		for _, p := range populationByCountry[country] {
			merged = append(merged, model.MergedCountryRow{
				Country:    country,
				ISO3:       m.ISO3,
				Status:     m.Status,
				ANC4:       h.ANC4,
				SBA:        h.SBA,
				Births2022: p.Births2022,
			})
		}
	}
	return merged
}

func mortalityName(r model.MortalityRecord) string   { return r.Country }
func healthName(r model.HealthRecord) string         { return r.Country }
func populationName(r model.PopulationRecord) string { return r.Country }

func normalizeMortality(rows []model.MortalityRecord, synonyms map[string]string) []model.MortalityRecord {
	out := make([]model.MortalityRecord, len(rows))
	for i, r := range rows {
		r.Country = NormalizeCountry(r.Country, synonyms)
		out[i] = r
	}
	return out
}

func normalizeHealth(rows []model.HealthRecord, synonyms map[string]string) []model.HealthRecord {
	out := make([]model.HealthRecord, len(rows))
	for i, r := range rows {
		r.Country = NormalizeCountry(r.Country, synonyms)
		out[i] = r
	}
	return out
}

func normalizePopulation(rows []model.PopulationRecord, synonyms map[string]string) []model.PopulationRecord {
	out := make([]model.PopulationRecord, len(rows))
	for i, r := range rows {
		r.Country = NormalizeCountry(r.Country, synonyms)
		out[i] = r
	}
	return out
}
