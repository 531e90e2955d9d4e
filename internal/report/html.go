package report

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"time"

	"health-coverage-pipeline/internal/model"
)

// indicatorFinding is one indicator's rendered comparison.
type indicatorFinding struct {
	Indicator      model.Indicator
	Name           string
	OnTrack        model.CoverageSummary
	OffTrack       model.CoverageSummary
	HasGap         bool
	Gap            float64
	Interpretation string
}

type reportData struct {
	GeneratedAt string
	Countries   int
	OnTrack     int
	OffTrack    int
	ChartPath   string
	Findings    []indicatorFinding
	Summaries   []model.CoverageSummary
	Warnings    []string
}

var indicatorNames = map[model.Indicator]string{
	model.IndicatorANC4: "Antenatal Care (4+ visits)",
	model.IndicatorSBA:  "Skilled Birth Attendance",
}

// interpretGap buckets the coverage gap the way the published analysis
// does: >20 points large, >10 moderate, otherwise small.
func interpretGap(gap float64) string {
	switch {
	case gap > 20:
		return "Large coverage gap indicates significant disparities between on-track and off-track countries."
	case gap > 10:
		return "Moderate coverage gap suggests room for improvement in off-track countries."
	default:
		return "Relatively small coverage gap between the two groups."
	}
}

// RenderHTML writes the self-contained analysis report.
func RenderHTML(result model.AnalysisResult, chartPath, path string) error {
	data := reportData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Countries:   countDistinct(result.Merged),
		ChartPath:   chartPath,
		Summaries:   result.Summaries,
		Warnings:    result.Warnings,
	}
	for _, row := range result.Merged {
		switch row.Status {
		case model.StatusOnTrack:
			data.OnTrack++
		case model.StatusOffTrack:
			data.OffTrack++
		}
	}

	for _, ind := range model.Indicators {
		f := indicatorFinding{Indicator: ind, Name: indicatorNames[ind]}
		f.OnTrack, _ = result.SummaryFor(ind, model.StatusOnTrack)
		f.OffTrack, _ = result.SummaryFor(ind, model.StatusOffTrack)
		if gap, ok := result.GapFor(ind); ok {
			f.HasGap = true
			f.Gap = gap.Gap
			f.Interpretation = interpretGap(gap.Gap)
		}
		data.Findings = append(data.Findings, f)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := reportTemplate.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func countDistinct(rows []model.MergedCountryRow) int {
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.Country] = true
	}
	return len(seen)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(v float64) string {
		if math.IsNaN(v) {
			return "–"
		}
		return fmt.Sprintf("%.1f%%", v)
	},
	"births": func(v float64) string {
		if math.IsNaN(v) {
			return "–"
		}
		return fmt.Sprintf("%.0f", v)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Maternal Health Coverage Analysis</title>
<style>
body { font-family: "Segoe UI", Arial, sans-serif; margin: 2em auto; max-width: 960px; color: #222; }
h1 { border-bottom: 3px solid #2e86ab; padding-bottom: 0.3em; }
h2 { color: #2e86ab; margin-top: 1.6em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.5em 0.8em; text-align: right; }
th { background: #2e86ab; color: #fff; }
td:first-child, td:nth-child(2), th:first-child, th:nth-child(2) { text-align: left; }
.finding { background: #f5f8fa; border-left: 4px solid #2e86ab; padding: 0.8em 1.2em; margin: 1em 0; }
.warning { background: #fdf3e7; border-left: 4px solid #e76f51; padding: 0.6em 1em; margin: 0.5em 0; }
.meta { color: #777; font-size: 0.9em; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>Maternal Health Coverage Analysis</h1>
<p class="meta">Generated {{.GeneratedAt}} · {{.Countries}} countries with complete data
({{.OnTrack}} on-track rows, {{.OffTrack}} off-track rows)</p>

{{if .ChartPath}}<h2>Coverage comparison</h2>
<img src="{{.ChartPath}}" alt="Coverage by indicator and track status">{{end}}

<h2>Key findings</h2>
{{range .Findings}}
<div class="finding">
<strong>{{.Name}} ({{.Indicator}})</strong><br>
On-track countries: {{pct .OnTrack.WeightedCoverage}} weighted coverage across {{.OnTrack.NCountries}} countries.<br>
Off-track countries: {{pct .OffTrack.WeightedCoverage}} weighted coverage across {{.OffTrack.NCountries}} countries.<br>
{{if .HasGap}}Coverage gap: {{printf "%.1f" .Gap}} percentage points. {{.Interpretation}}{{else}}Gap undefined: one of the groups has no qualifying countries.{{end}}
</div>
{{end}}

<h2>Summary table</h2>
<table>
<tr><th>Indicator</th><th>Track status</th><th>Countries</th><th>Total births (thousands)</th><th>Weighted</th><th>Min</th><th>Max</th><th>Median</th></tr>
{{range .Summaries}}
<tr><td>{{.Indicator}}</td><td>{{.TrackStatus}}</td><td>{{.NCountries}}</td><td>{{births .TotalBirths}}</td><td>{{pct .WeightedCoverage}}</td><td>{{pct .MinCoverage}}</td><td>{{pct .MaxCoverage}}</td><td>{{pct .MedianCoverage}}</td></tr>
{{end}}
</table>

{{if .Warnings}}<h2>Data notes</h2>
{{range .Warnings}}<div class="warning">{{.}}</div>{{end}}{{end}}

<p class="meta">Weighted coverage uses absolute annual births as weights; total births is the signed sum.
Countries present in all three sources only (inner join on canonical name).</p>
</body>
</html>
`))
