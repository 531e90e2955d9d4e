package model

import "time"

// Run statuses, in lifecycle order.
const (
	RunPending     = "pending"
	RunRunning     = "running"
	RunIngesting   = "ingesting"
	RunCleaning    = "cleaning"
	RunMerging     = "merging"
	RunAggregating = "aggregating"
	RunExporting   = "exporting"
	RunCompleted   = "completed"
	RunFailed      = "failed"
)

// Run is one recorded analysis execution.
type Run struct {
	ID        string       `json:"id"`
	Spec      AnalysisSpec `json:"spec"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// StageProgress records the outcome of a single pipeline stage.
type StageProgress struct {
	Stage     string     `json:"stage"`
	Status    string     `json:"status"` // started, completed, failed
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	RowsOut   int        `json:"rows_out"`
}

// RunLogEntry is one structured log line persisted with a run.
type RunLogEntry struct {
	Stage     string                 `json:"stage"`
	Level     string                 `json:"level"` // info, warning, error
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
