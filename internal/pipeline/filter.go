package pipeline

import (
	"regexp"
	"strings"
)

// AggregatePatterns are the case-insensitive patterns that mark a row as a
// regional, income-group or development-status aggregate rather than an
// individual country. The list is intentionally broad and mirrors the
// source classification: "America" also hits country names containing the
// substring, a known precision trade-off that is preserved, not fixed.
var AggregatePatterns = []string{
	`\(.*SDGRC.*\)`,
	`Africa$`,
	`Asia$`,
	`Europe$`,
	`America`,
	`World`,
	`Developed`,
	`Developing`,
	`Least developed`,
	`Land.locked`,
	`Small island`,
	`Sub-Saharan`,
	`Northern Africa`,
	`Eastern Africa`,
	`Western Africa`,
	`Middle Africa`,
	`Southern Africa`,
	`Eastern Asia`,
	`South-eastern Asia`,
	`Southern Asia`,
	`Western Asia`,
	`Central Asia`,
	`Eastern Europe`,
	`Northern Europe`,
	`Southern Europe`,
	`Western Europe`,
	`Caribbean`,
	`Central America`,
	`South America`,
	`Northern America`,
	`Oceania`,
	`Polynesia`,
	`Melanesia`,
	`Micronesia`,
	`More developed`,
	`Less developed`,
	`High income`,
	`Upper middle income`,
	`Lower middle income`,
	`Low income`,
}

var aggregateRe = regexp.MustCompile(`(?i)(?:` + strings.Join(AggregatePatterns, "|") + `)`)

// IsAggregateName reports whether a (normalized) name denotes a regional
// or income-group aggregate.
func IsAggregateName(name string) bool {
	return aggregateRe.MatchString(name)
}

// FilterIndividualCountries drops rows whose name matches an aggregate
// pattern. The output is a strict subset of the input: original order
// preserved, no duplication.
func FilterIndividualCountries[T any](rows []T, name func(T) string) []T {
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if IsAggregateName(name(row)) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
