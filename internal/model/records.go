package model

// Indicator identifies one of the two maternal health coverage indicators.
type Indicator string

const (
	IndicatorANC4 Indicator = "ANC4" // antenatal care, 4+ visits
	IndicatorSBA  Indicator = "SBA"  // skilled birth attendance
)

// Indicators lists every supported indicator in report order.
var Indicators = []Indicator{IndicatorANC4, IndicatorSBA}

// TrackStatus is the binary under-five mortality reduction classification.
// The zero value means the source row carried no status at all; such rows
// pass through cleaning unclassified and never match a labeled group.
type TrackStatus string

const (
	StatusOnTrack  TrackStatus = "on-track"
	StatusOffTrack TrackStatus = "off-track"
)

// TrackStatuses lists the two labeled groups in report order.
var TrackStatuses = []TrackStatus{StatusOnTrack, StatusOffTrack}

// HealthObservation is one long-format row from the UNICEF indicator series,
// already mapped to typed fields at the ingestion boundary.
type HealthObservation struct {
	Country   string  `json:"country"`
	Indicator string  `json:"indicator"` // raw indicator name from the source
	Year      int     `json:"year"`
	Value     float64 `json:"value"` // coverage percentage, 0-100
}

// HealthRecord is the wide-format result of cleaning the UNICEF series:
// one row per country, at most one surviving observation per indicator.
// A nil pointer means the country had no usable observation for that
// indicator inside the configured year range.
type HealthRecord struct {
	Country string   `json:"country"`
	ANC4    *float64 `json:"anc4,omitempty"`
	SBA     *float64 `json:"sba,omitempty"`
}

// PopulationRow is one typed row from the UN WPP demographic sheet.
// Births is nil when the source cell was empty or not numeric.
type PopulationRow struct {
	Country string   `json:"country"`
	Year    int      `json:"year"`
	Births  *float64 `json:"births,omitempty"` // thousands of births, may be negative in decline projections
}

// PopulationRecord is a cleaned reference-year births row.
type PopulationRecord struct {
	Country    string  `json:"country"`
	Births2022 float64 `json:"births_2022"`
}

// MortalityRow is one typed row from the track-status workbook.
type MortalityRow struct {
	OfficialName string `json:"official_name"`
	ISO3         string `json:"iso3"`
	RawStatus    string `json:"raw_status"` // empty when the source cell was blank
}

// MortalityRecord is a classified track-status row. Status is the zero
// value when RawStatus was blank.
type MortalityRecord struct {
	Country string      `json:"country"`
	ISO3    string      `json:"iso3"`
	Status  TrackStatus `json:"status"`
}

// MergedCountryRow is the inner-join of the three cleaned sources on
// canonical country name. ANC4 and SBA are individually nullable, but by
// construction at least one of them is set (a health row only exists when
// at least one indicator survived cleaning).
type MergedCountryRow struct {
	Country    string      `json:"country"`
	ISO3       string      `json:"iso3"`
	Status     TrackStatus `json:"status"`
	ANC4       *float64    `json:"anc4,omitempty"`
	SBA        *float64    `json:"sba,omitempty"`
	Births2022 float64     `json:"births_2022"`
}

// Value returns the coverage value for the given indicator, or nil.
func (r MergedCountryRow) Value(ind Indicator) *float64 {
	switch ind {
	case IndicatorANC4:
		return r.ANC4
	case IndicatorSBA:
		return r.SBA
	}
	return nil
}
