package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"health-coverage-pipeline/internal/ingest"
	"health-coverage-pipeline/internal/model"
	"health-coverage-pipeline/internal/report"
	"health-coverage-pipeline/internal/store"
	"health-coverage-pipeline/pkg/utils"
)

// Analyze runs the in-memory core over typed source tables: clean each
// source, merge on canonical country name, aggregate per group. Pure; no
// I/O, no shared state between stages.
func Analyze(
	health []model.HealthObservation,
	population []model.PopulationRow,
	mortality []model.MortalityRow,
	spec model.AnalysisSpec,
) model.AnalysisResult {
	healthClean := CleanHealth(health, spec.TargetYears, spec.Patterns)
	populationClean := CleanPopulation(population, spec.ReferenceYear)
	mortalityClean := CleanMortality(mortality)

	merged := Merge(mortalityClean, healthClean, populationClean, spec.CountrySynonyms)
	summaries, gaps := Summarize(merged)

	return model.AnalysisResult{Merged: merged, Summaries: summaries, Gaps: gaps}
}

// Run executes a full analysis run: ingest the three workbooks, run the
// core, persist and export the results. Stage progress and warnings are
// recorded in the run store as they happen.
func Run(ctx context.Context, runID string, spec model.AnalysisSpec) (err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting coverage analysis run: %s\n", runID)

	spec.ApplyDefaults()
	store.UpdateRunStatus(runID, model.RunRunning)

	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, model.RunFailed)
			store.SaveRunError(runID, err)
		}
	}()

	// --- INGESTION STAGE ---
	health, population, mortality, warnings, err := ingestSources(ctx, runID, spec)
	if err != nil {
		return err
	}

	// --- CLEANING STAGE ---
	stageStart := time.Now()
	store.UpdateRunStatus(runID, model.RunCleaning)
	healthClean := CleanHealth(health, spec.TargetYears, spec.Patterns)
	populationClean := CleanPopulation(population, spec.ReferenceYear)
	mortalityClean := CleanMortality(mortality)
	endStage(runID, "cleaning", stageStart, len(healthClean)+len(populationClean)+len(mortalityClean))
	fmt.Printf("🧹 Cleaned: %d health, %d population, %d mortality rows\n",
		len(healthClean), len(populationClean), len(mortalityClean))

	if err := ctx.Err(); err != nil {
		return err
	}

	// --- MERGE STAGE ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, model.RunMerging)
	merged := Merge(mortalityClean, healthClean, populationClean, spec.CountrySynonyms)
	endStage(runID, "merge", stageStart, len(merged))
	if len(merged) == 0 {
		// Not fatal: the run completes visibly empty rather than crashing.
		warnings = append(warnings, "merge produced zero rows: no country is present in all three sources")
		store.SaveRunLog(runID, "merge", "warning", "merge produced zero rows", nil)
	}
	fmt.Printf("🔗 Merged: %d countries with complete data\n", len(merged))

	// --- AGGREGATION STAGE ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, model.RunAggregating)
	summaries, gaps := Summarize(merged)
	endStage(runID, "aggregation", stageStart, len(summaries))
	fmt.Printf("📊 Aggregated: %d summary groups, %d gap rows\n", len(summaries), len(gaps))

	result := model.AnalysisResult{Merged: merged, Summaries: summaries, Gaps: gaps, Warnings: warnings}

	// --- EXPORT STAGE ---
	stageStart = time.Now()
	store.UpdateRunStatus(runID, model.RunExporting)
	if err := exportResults(runID, spec, result); err != nil {
		return err
	}
	endStage(runID, "export", stageStart, len(merged))

	store.UpdateRunStatus(runID, model.RunCompleted)
	fmt.Printf("🏁 Run %s completed in %v\n", runID, time.Since(start))
	return nil
}

// ingestSources reads the three workbooks in parallel and maps them to
// typed tables. Missing-column conditions surface as warnings with empty
// tables; only unreadable files fail the run.
func ingestSources(ctx context.Context, runID string, spec model.AnalysisSpec) (
	health []model.HealthObservation,
	population []model.PopulationRow,
	mortality []model.MortalityRow,
	warnings []string,
	err error,
) {
	stageStart := time.Now()
	store.UpdateRunStatus(runID, model.RunIngesting)
	store.SaveRunLog(runID, "ingestion", "info", "Starting ingestion stage", map[string]interface{}{
		"health":     spec.Health.Path,
		"population": spec.Population.Path,
		"mortality":  spec.Mortality.Path,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make([]error, 3)

	addWarnings := func(source string, ws []error) {
		mu.Lock()
		defer mu.Unlock()
		for _, w := range ws {
			msg := fmt.Sprintf("%s: %v", source, w)
			warnings = append(warnings, msg)
			store.SaveRunLog(runID, "ingestion", "warning", msg, nil)
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		table, err := ingest.ReadSource(spec.Health)
		if err != nil {
			errs[0] = fmt.Errorf("health source: %w", err)
			return
		}
		rows, ws := ingest.HealthObservations(table)
		addWarnings("health source", ws)
		health = rows
	}()
	go func() {
		defer wg.Done()
		table, err := ingest.ReadSource(spec.Population)
		if err != nil {
			errs[1] = fmt.Errorf("population source: %w", err)
			return
		}
		rows, ws := ingest.PopulationRows(table)
		addWarnings("population source", ws)
		population = rows
	}()
	go func() {
		defer wg.Done()
		table, err := ingest.ReadSource(spec.Mortality)
		if err != nil {
			errs[2] = fmt.Errorf("mortality source: %w", err)
			return
		}
		rows, ws := ingest.MortalityRows(table)
		addWarnings("mortality source", ws)
		mortality = rows
	}()
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, nil, nil, nil, e
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, nil, err
	}

	endStage(runID, "ingestion", stageStart, len(health)+len(population)+len(mortality))
	fmt.Printf("📄 Ingested: %d health, %d population, %d mortality rows\n",
		len(health), len(population), len(mortality))
	return health, population, mortality, warnings, nil
}

// exportResults persists and renders everything the spec asks for.
func exportResults(runID string, spec model.AnalysisSpec, result model.AnalysisResult) error {
	om := utils.NewOutputManager(spec.OutputDir)

	if spec.Export != nil {
		if spec.Export.DB {
			if err := store.SaveMergedRows(runID, result.Merged); err != nil {
				return fmt.Errorf("failed to persist merged rows: %w", err)
			}
			if err := store.SaveSummaries(runID, result.Summaries); err != nil {
				return fmt.Errorf("failed to persist summaries: %w", err)
			}
		}
		if spec.Export.MergedCSV != "" {
			path, err := om.FilePath(runID, spec.Export.MergedCSV)
			if err != nil {
				return err
			}
			n, err := ExportMergedCSV(path, result.Merged)
			if err != nil {
				return err
			}
			fmt.Printf("💾 Export: %d merged rows written to %s\n", n, path)
		}
		if spec.Export.SummaryCSV != "" {
			path, err := om.FilePath(runID, spec.Export.SummaryCSV)
			if err != nil {
				return err
			}
			n, err := ExportSummaryCSV(path, result.Summaries, result.Gaps)
			if err != nil {
				return err
			}
			fmt.Printf("💾 Export: %d summary rows written to %s\n", n, path)
		}
		if spec.Export.ResultJSON != "" {
			path, err := om.FilePath(runID, spec.Export.ResultJSON)
			if err != nil {
				return err
			}
			if err := ExportResultJSON(path, runID, result); err != nil {
				return err
			}
			fmt.Printf("💾 Export: result JSON written to %s\n", path)
		}
	}

	if spec.Report != nil {
		chartRel := ""
		if spec.Report.Chart != "" {
			path, err := om.FigurePath(runID, spec.Report.Chart)
			if err != nil {
				return err
			}
			if err := report.RenderChart(result, path); err != nil {
				return err
			}
			chartRel = "../figures/" + spec.Report.Chart
			fmt.Printf("📈 Chart rendered to %s\n", path)
		}
		if spec.Report.HTML != "" {
			path, err := om.ReportPath(runID, spec.Report.HTML)
			if err != nil {
				return err
			}
			if err := report.RenderHTML(result, chartRel, path); err != nil {
				return err
			}
			fmt.Printf("📝 Report rendered to %s\n", path)
		}
	}
	return nil
}

func endStage(runID, stage string, startedAt time.Time, rowsOut int) {
	endedAt := time.Now()
	store.SaveStageProgress(runID, stage, "completed", startedAt, &endedAt, rowsOut)
}
