package store

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"health-coverage-pipeline/internal/model"
)

var db *sql.DB

// InitDB opens the run store and creates tables when missing.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			ended_at DATETIME,
			rows_out INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			details TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS merged_rows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			country TEXT,
			iso3 TEXT,
			status TEXT,
			anc4 REAL,
			sba REAL,
			births_2022 REAL
		);`,
		`CREATE TABLE IF NOT EXISTS coverage_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			indicator TEXT,
			track_status TEXT,
			n_countries INTEGER,
			total_births REAL,
			weighted_coverage REAL,
			min_coverage REAL,
			max_coverage REAL,
			median_coverage REAL
		);`,
	}
	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a new analysis run.
func SaveRun(runID string, spec model.AnalysisSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, model.RunPending, now, now)
	return err
}

// UpdateRunStatus updates a run's lifecycle status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]model.Run, error) {
	rows, err := db.Query(`SELECT id, spec, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run with its full spec.
func GetRun(runID string) (model.Run, error) {
	row := db.QueryRow(`SELECT id, spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (model.Run, error) {
	var run model.Run
	var specJSON string
	if err := s.Scan(&run.ID, &specJSON, &run.Status, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return model.Run{}, err
	}
	if err := json.Unmarshal([]byte(specJSON), &run.Spec); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

// SaveStageProgress records a stage transition for a run.
func SaveStageProgress(runID, stage, status string, startedAt time.Time, endedAt *time.Time, rowsOut int) error {
	_, err := db.Exec(`INSERT INTO run_progress (run_id, stage, status, started_at, ended_at, rows_out) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, endedAt, rowsOut)
	return err
}

// SaveRunLog records a structured log entry for a run.
func SaveRunLog(runID, stage, level, message string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, detailsJSON, now)
	return err
}

// GetRunErrors returns all recorded errors for a run.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errorsOut []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errorsOut = append(errorsOut, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errorsOut, rows.Err()
}

// GetRunLogs returns all structured log entries for a run.
func GetRunLogs(runID string) ([]model.RunLogEntry, error) {
	rows, err := db.Query(`SELECT stage, level, message, details, created_at FROM run_logs WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.RunLogEntry
	for rows.Next() {
		var entry model.RunLogEntry
		var detailsJSON string
		if err := rows.Scan(&entry.Stage, &entry.Level, &entry.Message, &detailsJSON, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if detailsJSON != "" && detailsJSON != "null" {
			if err := json.Unmarshal([]byte(detailsJSON), &entry.Details); err != nil {
				return nil, err
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// SaveMergedRows replaces the persisted merged table for a run.
func SaveMergedRows(runID string, merged []model.MergedCountryRow) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM merged_rows WHERE run_id = ?`, runID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO merged_rows (run_id, country, iso3, status, anc4, sba, births_2022) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range merged {
		if _, err := stmt.Exec(runID, row.Country, row.ISO3, string(row.Status), row.ANC4, row.SBA, row.Births2022); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetMergedRows returns the persisted merged table for a run.
func GetMergedRows(runID string) ([]model.MergedCountryRow, error) {
	rows, err := db.Query(`SELECT country, iso3, status, anc4, sba, births_2022 FROM merged_rows WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var merged []model.MergedCountryRow
	for rows.Next() {
		var row model.MergedCountryRow
		var status string
		var anc4, sba sql.NullFloat64
		if err := rows.Scan(&row.Country, &row.ISO3, &status, &anc4, &sba, &row.Births2022); err != nil {
			return nil, err
		}
		row.Status = model.TrackStatus(status)
		if anc4.Valid {
			v := anc4.Float64
			row.ANC4 = &v
		}
		if sba.Valid {
			v := sba.Float64
			row.SBA = &v
		}
		merged = append(merged, row)
	}
	return merged, rows.Err()
}

// SaveSummaries replaces the persisted coverage summaries for a run.
func SaveSummaries(runID string, summaries []model.CoverageSummary) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM coverage_summaries WHERE run_id = ?`, runID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO coverage_summaries
		(run_id, indicator, track_status, n_countries, total_births, weighted_coverage, min_coverage, max_coverage, median_coverage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range summaries {
		if _, err := stmt.Exec(runID, string(s.Indicator), string(s.TrackStatus), s.NCountries,
			nullIfNaN(s.TotalBirths), nullIfNaN(s.WeightedCoverage), nullIfNaN(s.MinCoverage),
			nullIfNaN(s.MaxCoverage), nullIfNaN(s.MedianCoverage)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSummaries returns the persisted coverage summaries for a run. NULL
// columns come back as NaN, matching the aggregator's empty-group sentinel.
func GetSummaries(runID string) ([]model.CoverageSummary, error) {
	rows, err := db.Query(`SELECT indicator, track_status, n_countries, total_births, weighted_coverage, min_coverage, max_coverage, median_coverage
		FROM coverage_summaries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.CoverageSummary
	for rows.Next() {
		var s model.CoverageSummary
		var indicator, status string
		var total, weighted, min, max, median sql.NullFloat64
		if err := rows.Scan(&indicator, &status, &s.NCountries, &total, &weighted, &min, &max, &median); err != nil {
			return nil, err
		}
		s.Indicator = model.Indicator(indicator)
		s.TrackStatus = model.TrackStatus(status)
		s.TotalBirths = floatOrNaN(total)
		s.WeightedCoverage = floatOrNaN(weighted)
		s.MinCoverage = floatOrNaN(min)
		s.MaxCoverage = floatOrNaN(max)
		s.MedianCoverage = floatOrNaN(median)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func nullIfNaN(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}

func floatOrNaN(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}
