package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles output file organization for analysis runs. Each
// run writes under its own directory: tables at the top level, rendered
// figures and reports in subdirectories.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// RunDir creates (if needed) and returns the output directory for a run.
func (om *OutputManager) RunDir(runID string) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}
	return dir, nil
}

// FilePath returns the full path for a table file inside the run directory.
func (om *OutputManager) FilePath(runID, fileName string) (string, error) {
	dir, err := om.RunDir(runID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(fileName)), nil
}

// FigurePath returns the full path for a rendered chart.
func (om *OutputManager) FigurePath(runID, fileName string) (string, error) {
	dir, err := om.RunDir(runID)
	if err != nil {
		return "", err
	}
	figDir := filepath.Join(dir, "figures")
	if err := os.MkdirAll(figDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create figures directory: %w", err)
	}
	return filepath.Join(figDir, filepath.Base(fileName)), nil
}

// ReportPath returns the full path for a rendered report.
func (om *OutputManager) ReportPath(runID, fileName string) (string, error) {
	dir, err := om.RunDir(runID)
	if err != nil {
		return "", err
	}
	repDir := filepath.Join(dir, "reports")
	if err := os.MkdirAll(repDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	return filepath.Join(repDir, filepath.Base(fileName)), nil
}

// DownloadURL generates the API download URL for a run output file.
func (om *OutputManager) DownloadURL(runID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", runID, filepath.Base(fileName))
}

// FileType determines the file type based on extension.
func (om *OutputManager) FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".png":
		return "image"
	case ".html":
		return "report"
	case ".xlsx", ".xls":
		return "excel"
	default:
		return "unknown"
	}
}
