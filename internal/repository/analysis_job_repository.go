package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// timestampLayout is fixed width so text order matches time order
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// AnalysisJobRepository persists analysis job snapshots
type AnalysisJobRepository struct {
	db *sql.DB
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db *sql.DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

// SaveJob inserts or replaces a job snapshot
func (r *AnalysisJobRepository) SaveJob(job *models.AnalysisJob) error {
	var summaryJSON sql.NullString
	if job.Summary != nil {
		b, err := json.Marshal(job.Summary)
		if err != nil {
			return fmt.Errorf("failed to encode job summary: %w", err)
		}
		summaryJSON = sql.NullString{String: string(b), Valid: true}
	}

	query := `
		INSERT INTO analysis_jobs (
			id, status, progress, total_periods, tower_jumps_detected,
			summary_json, error_message, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			total_periods = excluded.total_periods,
			tower_jumps_detected = excluded.tower_jumps_detected,
			summary_json = excluded.summary_json,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		job.ID,
		job.Status,
		job.Progress,
		job.TotalPeriods,
		job.TowerJumpsDetected,
		summaryJSON,
		job.ErrorMessage,
		job.CreatedAt.UTC().Format(timestampLayout),
		job.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID
func (r *AnalysisJobRepository) GetJob(id string) (*models.AnalysisJob, error) {
	row := r.db.QueryRow(`
		SELECT id, status, progress, total_periods, tower_jumps_detected,
			   summary_json, error_message, created_at, updated_at
		FROM analysis_jobs
		WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis job %s: %w", id, jobs.ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis job: %w", err)
	}
	return job, nil
}

// LatestCompleted returns the most recently finished completed job
func (r *AnalysisJobRepository) LatestCompleted() (*models.AnalysisJob, error) {
	row := r.db.QueryRow(`
		SELECT id, status, progress, total_periods, tower_jumps_detected,
			   summary_json, error_message, created_at, updated_at
		FROM analysis_jobs
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, models.JobStatusCompleted)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, jobs.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest analysis job: %w", err)
	}
	return job, nil
}

func scanJob(row *sql.Row) (*models.AnalysisJob, error) {
	var (
		job                  models.AnalysisJob
		summaryJSON          sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Progress,
		&job.TotalPeriods,
		&job.TowerJumpsDetected,
		&summaryJSON,
		&job.ErrorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if summaryJSON.Valid {
		job.Summary = &models.Summary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), job.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode job summary: %w", err)
		}
	}
	if job.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if job.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &job, nil
}
