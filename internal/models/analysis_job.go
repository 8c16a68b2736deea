package models

import "time"

// AnalysisJob tracks one asynchronous tower jump analysis run
type AnalysisJob struct {
	ID       string `json:"job_id" db:"id"`
	Status   string `json:"status" db:"status"`     // pending, running, completed, failed
	Progress string `json:"progress" db:"progress"` // human readable stage message

	// Results
	TotalPeriods       int      `json:"total_periods" db:"total_periods"`
	TowerJumpsDetected int      `json:"tower_jumps_detected" db:"tower_jumps_detected"`
	Summary            *Summary `json:"analysis_summary,omitempty" db:"summary_json"`
	ErrorMessage       string   `json:"error,omitempty" db:"error_message"`

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JobStatus constants
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// IsTerminal reports whether the job can no longer change state
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
