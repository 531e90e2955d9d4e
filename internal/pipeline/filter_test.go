package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAggregateName(t *testing.T) {
	aggregates := []string{
		"Sub-Saharan Africa",
		"Eastern Africa",
		"World",
		"Latin America and the Caribbean",
		"Least developed countries",
		"High income",
		"lower middle income",
		"Small island developing States",
		"Oceania",
		"Eastern Europe",
		"Countries with Improved Access (SDGRC region)",
	}
	for _, name := range aggregates {
		assert.True(t, IsAggregateName(name), "%q should be filtered as an aggregate", name)
	}

	countries := []string{
		"Nigeria",
		"Bangladesh",
		"Central African Republic",
		"Papua New Guinea",
		"Türkiye",
	}
	for _, name := range countries {
		assert.False(t, IsAggregateName(name), "%q should be kept as a country", name)
	}
}

// The pattern list is deliberately broad: names that merely contain a
// matched substring are dropped too. This is preserved source behavior,
// not a bug to fix.
func TestIsAggregateNameKnownFalsePositives(t *testing.T) {
	assert.True(t, IsAggregateName("South Africa"), `"South Africa" ends in "Africa"`)
	assert.True(t, IsAggregateName("Micronesia (Federated States of)"))
}

func TestFilterIndividualCountriesIsOrderedSubset(t *testing.T) {
	in := []string{"Nigeria", "Sub-Saharan Africa", "Bangladesh", "World", "Chad"}
	out := FilterIndividualCountries(in, func(s string) string { return s })

	assert.Equal(t, []string{"Nigeria", "Bangladesh", "Chad"}, out)

	// Subset property: every output row appears in the input, in order,
	// without duplication.
	i := 0
	for _, row := range out {
		for i < len(in) && in[i] != row {
			i++
		}
		assert.Less(t, i, len(in), "output row %q missing or out of order", row)
		i++
	}
}

func TestFilterIndividualCountriesEmptyInput(t *testing.T) {
	out := FilterIndividualCountries(nil, func(s string) string { return s })
	assert.Empty(t, out)
}
