package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"health-coverage-pipeline/internal/model"
	"health-coverage-pipeline/internal/pipeline"
	"health-coverage-pipeline/internal/store"
	"health-coverage-pipeline/pkg/utils"
)

// CreateAnalysis creates a new coverage analysis run
// @Summary Create a new analysis run
// @Description Create and start a coverage analysis run with the provided spec
// @Tags analyses
// @Accept json
// @Produce json
// @Param spec body model.AnalysisSpec true "Analysis configuration"
// @Success 200 {object} map[string]interface{} "Run created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var spec model.AnalysisSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if spec.Health.Path == "" || spec.Population.Path == "" || spec.Mortality.Path == "" {
		http.Error(w, "All three source paths are required", http.StatusBadRequest)
		return
	}
	spec.ApplyDefaults()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	// Runs are short (well under a second for typical inputs) but still
	// executed asynchronously so the API responds immediately.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		// Run marks the run failed and records the error itself.
		pipeline.Run(ctx, runID, spec)
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     runID,
		"status": model.RunPending,
	})
}

// ListAnalyses lists all analysis runs
// @Summary List analysis runs
// @Tags analyses
// @Produce json
// @Success 200 {array} model.Run
// @Router /analyses [get]
func ListAnalyses(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetAnalysis fetches one run with its spec and status
// @Summary Get an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Run
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /analyses/{id} [get]
func GetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetAnalysisResults returns the merged country table for a run
// @Summary Get merged country rows
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} model.MergedCountryRow
// @Router /analyses/{id}/results [get]
func GetAnalysisResults(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	rows, err := store.GetMergedRows(runID)
	if err != nil {
		http.Error(w, "Failed to load merged rows", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      runID,
		"count":   len(rows),
		"results": rows,
	})
}

// GetAnalysisSummary returns the coverage summaries for a run
// @Summary Get coverage summaries
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} model.CoverageSummary
// @Router /analyses/{id}/summary [get]
func GetAnalysisSummary(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	summaries, err := store.GetSummaries(runID)
	if err != nil {
		http.Error(w, "Failed to load summaries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        runID,
		"summaries": summaries,
	})
}

// GetAnalysisErrors returns recorded errors for a run
// @Summary Get run errors
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Router /analyses/{id}/errors [get]
func GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	runErrors, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to load errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     runID,
		"errors": runErrors,
	})
}

// GetAnalysisLogs returns structured log entries for a run
// @Summary Get run logs
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Router /analyses/{id}/logs [get]
func GetAnalysisLogs(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	logs, err := store.GetRunLogs(runID)
	if err != nil {
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":   runID,
		"logs": logs,
	})
}

// DownloadOutput serves a run output file (table, figure or report)
// @Summary Download a run output file
// @Tags analyses
// @Produce octet-stream
// @Param id path string true "Run ID"
// @Param file path string true "File name"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{id}/{file} [get]
func DownloadOutput(w http.ResponseWriter, r *http.Request) {
	runID := pathSegment(r, 3)
	fileName := filepath.Base(pathSegment(r, 4))

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	om := utils.NewOutputManager(run.Spec.OutputDir)
	candidates := []func(string, string) (string, error){om.FilePath, om.FigurePath, om.ReportPath}
	for _, lookup := range candidates {
		path, err := lookup(runID, fileName)
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}
	http.Error(w, "File not found", http.StatusNotFound)
}

// pathSegment returns the nth slash-separated segment of the request path.
func pathSegment(r *http.Request, n int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
