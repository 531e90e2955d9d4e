package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"health-coverage-pipeline/internal/model"
	"health-coverage-pipeline/internal/pipeline"
	"health-coverage-pipeline/internal/store"
)

func main() {
	specPath := flag.String("spec", "analysis.yaml", "path to the analysis spec (YAML or JSON)")
	dbPath := flag.String("db", "coverage.db", "path to the run store database")
	flag.Parse()

	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatalf("failed to load spec: %v", err)
	}
	spec.ApplyDefaults()

	if err := store.InitDB(*dbPath); err != nil {
		log.Fatalf("failed to init run store: %v", err)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		log.Fatalf("failed to save run: %v", err)
	}

	if err := pipeline.Run(context.Background(), runID, spec); err != nil {
		log.Fatalf("run %s failed: %v", runID, err)
	}

	printFindings(runID)
}

// loadSpec reads an AnalysisSpec from a YAML or JSON file.
func loadSpec(path string) (model.AnalysisSpec, error) {
	var spec model.AnalysisSpec

	data, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &spec)
	default:
		err = yaml.Unmarshal(data, &spec)
	}
	return spec, err
}

// printFindings prints the per-indicator comparison the run just produced.
func printFindings(runID string) {
	summaries, err := store.GetSummaries(runID)
	if err != nil || len(summaries) == 0 {
		// Summaries only persist when export.db is enabled in the spec.
		return
	}

	fmt.Println()
	fmt.Println("📋 COVERAGE ANALYSIS RESULTS")
	fmt.Println(strings.Repeat("=", 60))
	for _, ind := range model.Indicators {
		fmt.Printf("\n%s:\n", ind)
		var on, off float64 = math.NaN(), math.NaN()
		for _, s := range summaries {
			if s.Indicator != ind {
				continue
			}
			fmt.Printf("  %-10s %3d countries, weighted coverage %s\n",
				s.TrackStatus, s.NCountries, pct(s.WeightedCoverage))
			switch s.TrackStatus {
			case model.StatusOnTrack:
				on = s.WeightedCoverage
			case model.StatusOffTrack:
				off = s.WeightedCoverage
			}
		}
		if !math.IsNaN(on) && !math.IsNaN(off) {
			fmt.Printf("  gap        %.1f percentage points\n", on-off)
		}
	}
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}
