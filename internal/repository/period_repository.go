package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/database"
	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// sortColumns whitelists sortable output columns
var sortColumns = map[string]string{
	"TimeStart":       "time_start",
	"TimeEnd":         "time_end",
	"DurationMinutes": "duration_minutes",
	"State":           "state",
	"AllStates":       "all_states",
	"IsTowerJump":     "is_tower_jump",
	"ConfidenceLevel": "confidence_level",
	"RecordCount":     "record_count",
	"StateChanges":    "state_changes",
	"MaxSpeedKMH":     "max_speed_kmh",
	"MaxDistanceKM":   "max_distance_km",
	"AvgLatitude":     "avg_latitude",
	"AvgLongitude":    "avg_longitude",
}

// IsSortable reports whether column can be used as sort_by
func IsSortable(column string) bool {
	_, ok := sortColumns[column]
	return ok
}

const periodColumns = `
	time_start, time_end, duration_minutes, state, all_states, is_tower_jump,
	confidence_level, record_count, state_changes, max_speed_kmh, max_distance_km,
	avg_latitude, avg_longitude, centroid_cell`

// PeriodRepository handles database operations for period analyses
type PeriodRepository struct {
	db *sql.DB
}

// NewPeriodRepository creates a new period repository
func NewPeriodRepository(db *sql.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// SaveResults replaces the stored results of a job in one transaction
func (r *PeriodRepository) SaveResults(jobID string, results []models.PeriodAnalysis) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM period_analyses WHERE job_id = ?`, jobID); err != nil {
			return fmt.Errorf("failed to clear period analyses: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO period_analyses (job_id, seq,` + periodColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, p := range results {
			_, err := stmt.Exec(
				jobID,
				i,
				p.TimeStart.UTC().Format(models.TimeLayout),
				p.TimeEnd.UTC().Format(models.TimeLayout),
				p.DurationMinutes,
				p.State,
				p.AllStates,
				p.IsTowerJump,
				p.ConfidenceLevel,
				p.RecordCount,
				p.StateChanges,
				p.MaxSpeedKMH,
				p.MaxDistanceKM,
				nullFloat(p.AvgLatitude),
				nullFloat(p.AvgLongitude),
				p.CentroidCell,
			)
			if err != nil {
				return fmt.Errorf("failed to insert period %d: %w", i, err)
			}
		}
		return nil
	})
}

// List returns one page of a job's results and the total matching count.
// filter.Filter, SortBy, SortOrder, Page and PerPage must already be normalized.
func (r *PeriodRepository) List(filter models.ResultFilter) ([]models.PeriodAnalysis, int, error) {
	where := " WHERE job_id = ?"
	args := []interface{}{filter.JobID}
	switch filter.Filter {
	case models.FilterJumps:
		where += " AND is_tower_jump = 1"
	case models.FilterNormal:
		where += " AND is_tower_jump = 0"
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM period_analyses"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count period analyses: %w", err)
	}

	order := " ORDER BY seq ASC"
	if col, ok := sortColumns[filter.SortBy]; ok {
		dir := "ASC"
		if filter.SortOrder == "desc" {
			dir = "DESC"
		}
		order = fmt.Sprintf(" ORDER BY %s %s, seq ASC", col, dir)
	}

	query := "SELECT" + periodColumns + " FROM period_analyses" + where + order + " LIMIT ? OFFSET ?"
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	results, err := r.query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// All returns every result of a job in period order
func (r *PeriodRepository) All(jobID string) ([]models.PeriodAnalysis, error) {
	return r.query("SELECT"+periodColumns+" FROM period_analyses WHERE job_id = ? ORDER BY seq ASC", jobID)
}

func (r *PeriodRepository) query(query string, args ...interface{}) ([]models.PeriodAnalysis, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query period analyses: %w", err)
	}
	defer rows.Close()

	results := []models.PeriodAnalysis{}
	for rows.Next() {
		var (
			p          models.PeriodAnalysis
			start, end string
			lat, lon   sql.NullFloat64
		)
		err := rows.Scan(
			&start,
			&end,
			&p.DurationMinutes,
			&p.State,
			&p.AllStates,
			&p.IsTowerJump,
			&p.ConfidenceLevel,
			&p.RecordCount,
			&p.StateChanges,
			&p.MaxSpeedKMH,
			&p.MaxDistanceKM,
			&lat,
			&lon,
			&p.CentroidCell,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period analysis: %w", err)
		}

		if p.TimeStart, err = time.Parse(models.TimeLayout, start); err != nil {
			return nil, fmt.Errorf("failed to parse time_start: %w", err)
		}
		if p.TimeEnd, err = time.Parse(models.TimeLayout, end); err != nil {
			return nil, fmt.Errorf("failed to parse time_end: %w", err)
		}
		if lat.Valid {
			p.AvgLatitude = &lat.Float64
		}
		if lon.Valid {
			p.AvgLongitude = &lon.Float64
		}

		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate period analyses: %w", err)
	}
	return results, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
