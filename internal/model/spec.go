package model

// SourceSpec locates one tabular input. Type is derived from the file
// extension when empty. Sheet and HeaderRow only apply to workbooks;
// HeaderRow is 1-based (UN WPP sheets bury their header around row 17).
type SourceSpec struct {
	Path      string `json:"path" yaml:"path"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"` // xlsx, csv
	Sheet     string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	HeaderRow int    `json:"headerRow,omitempty" yaml:"headerRow,omitempty"`
}

// YearRange is an inclusive year window.
type YearRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Contains reports whether year falls inside the inclusive range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// IndicatorPatterns are the substrings that identify the two indicators in
// the raw UNICEF indicator names.
type IndicatorPatterns struct {
	ANC4 string `json:"anc4" yaml:"anc4"`
	SBA  string `json:"sba" yaml:"sba"`
}

// ExportSpec defines optional export targets for the merged table and the
// summary table, relative to the run's output directory.
type ExportSpec struct {
	MergedCSV  string `json:"mergedCsv,omitempty" yaml:"mergedCsv,omitempty"`
	SummaryCSV string `json:"summaryCsv,omitempty" yaml:"summaryCsv,omitempty"`
	ResultJSON string `json:"resultJson,omitempty" yaml:"resultJson,omitempty"`
	DB         bool   `json:"db,omitempty" yaml:"db,omitempty"` // persist merged rows and summaries to the run store
}

// ReportSpec toggles the rendered outputs.
type ReportSpec struct {
	Chart string `json:"chart,omitempty" yaml:"chart,omitempty"` // PNG file name
	HTML  string `json:"html,omitempty" yaml:"html,omitempty"`   // HTML report file name
}

// AnalysisSpec is the full configuration for one coverage analysis run.
// It is passed explicitly into every stage; there is no process-wide
// configuration singleton.
type AnalysisSpec struct {
	Health     SourceSpec `json:"health" yaml:"health"`
	Population SourceSpec `json:"population" yaml:"population"`
	Mortality  SourceSpec `json:"mortality" yaml:"mortality"`

	TargetYears   YearRange         `json:"targetYears" yaml:"targetYears"`
	ReferenceYear int               `json:"referenceYear" yaml:"referenceYear"`
	Patterns      IndicatorPatterns `json:"patterns" yaml:"patterns"`

	// CountrySynonyms maps raw source spellings to the canonical country
	// name used as the join key. When empty the shipped table applies.
	CountrySynonyms map[string]string `json:"countrySynonyms,omitempty" yaml:"countrySynonyms,omitempty"`

	OutputDir string      `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	Export    *ExportSpec `json:"export,omitempty" yaml:"export,omitempty"`
	Report    *ReportSpec `json:"report,omitempty" yaml:"report,omitempty"`
}

// ApplyDefaults fills unset fields with the reference analysis parameters.
func (s *AnalysisSpec) ApplyDefaults() {
	if s.TargetYears.From == 0 && s.TargetYears.To == 0 {
		s.TargetYears = YearRange{From: 2018, To: 2022}
	}
	if s.ReferenceYear == 0 {
		s.ReferenceYear = 2022
	}
	if s.Patterns.ANC4 == "" {
		s.Patterns.ANC4 = "Antenatal care 4+"
	}
	if s.Patterns.SBA == "" {
		s.Patterns.SBA = "Skilled birth attendant"
	}
	if s.CountrySynonyms == nil {
		s.CountrySynonyms = DefaultCountrySynonyms()
	}
	if s.OutputDir == "" {
		s.OutputDir = "output"
	}
}

// DefaultCountrySynonyms returns the shipped country-name synonym table.
// Every target is a canonical form that is not itself a key, which keeps
// normalization idempotent.
func DefaultCountrySynonyms() map[string]string {
	return map[string]string{
		"United States of America": "United States",
		"USA":                      "United States",
		"US":                       "United States",
		"United Kingdom":           "United Kingdom of Great Britain and Northern Ireland",
		"UK":                       "United Kingdom of Great Britain and Northern Ireland",
		"Russia":                   "Russian Federation",
		"South Korea":              "Republic of Korea",
		"North Korea":              "Democratic People's Republic of Korea",
		"Iran":                     "Iran (Islamic Republic of)",
		"Venezuela":                "Venezuela (Bolivarian Republic of)",
		"Bolivia":                  "Bolivia (Plurinational State of)",
		"Tanzania":                 "United Republic of Tanzania",
		"Ivory Coast":              "Côte d'Ivoire",
		"Cape Verde":               "Cabo Verde",
		"Swaziland":                "Eswatini",
		"Macedonia":                "North Macedonia",
		"Burma":                    "Myanmar",
		"East Timor":               "Timor-Leste",
		"Moldova":                  "Republic of Moldova",
		"Syria":                    "Syrian Arab Republic",
		"Laos":                     "Lao People's Democratic Republic",
		"Vietnam":                  "Viet Nam",
		"Brunei":                   "Brunei Darussalam",
		"Micronesia":               "Micronesia (Federated States of)",
		"Palestine":                "State of Palestine",
		"Turkey":                   "Türkiye",
	}
}
