package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/repository"
)

// ErrNoResults is returned when no completed analysis is available
var ErrNoResults = errors.New("no analysis results available, run analysis first")

// Pagination limits
const (
	DefaultPerPage = 20
	MaxPerPage     = 500
)

// ExportFilename is the attachment name of CSV exports
const ExportFilename = "tower_jumps_analysis_result.csv"

// ExportHeader lists CSV export columns in output record order
var ExportHeader = []string{
	"TimeStart", "TimeEnd", "DurationMinutes", "State", "AllStates", "IsTowerJump",
	"ConfidenceLevel", "RecordCount", "StateChanges", "MaxSpeedKMH", "MaxDistanceKM",
	"AvgLatitude", "AvgLongitude", "CentroidCell",
}

// ResultService reads the results of completed analyses
type ResultService struct {
	registry *jobs.Registry
	jobRepo  *repository.AnalysisJobRepository
	periods  *repository.PeriodRepository
}

// NewResultService creates a new result service
func NewResultService(registry *jobs.Registry, jobRepo *repository.AnalysisJobRepository, periods *repository.PeriodRepository) *ResultService {
	return &ResultService{
		registry: registry,
		jobRepo:  jobRepo,
		periods:  periods,
	}
}

// List returns one page of results for filter.JobID, or the latest completed job
func (s *ResultService) List(filter models.ResultFilter) (*models.ResultPage, error) {
	job, err := s.Job(filter.JobID)
	if err != nil {
		return nil, err
	}

	filter = NormalizeFilter(filter)
	filter.JobID = job.ID

	results, total, err := s.periods.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return &models.ResultPage{
		Results:    results,
		Pagination: models.NewPagination(filter.Page, filter.PerPage, total),
	}, nil
}

// Summary returns the summary of jobID, or of the latest completed job.
// It is nil when that analysis produced no periods.
func (s *ResultService) Summary(jobID string) (*models.Summary, error) {
	job, err := s.Job(jobID)
	if err != nil {
		return nil, err
	}
	return job.Summary, nil
}

// Export writes every result of jobID (or the latest completed job) as CSV
func (s *ResultService) Export(jobID string, w io.Writer) error {
	job, err := s.Job(jobID)
	if err != nil {
		return err
	}

	results, err := s.periods.All(job.ID)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range results {
		if err := cw.Write(exportRow(p)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// NormalizeFilter applies defaults and bounds to listing parameters
func NormalizeFilter(f models.ResultFilter) models.ResultFilter {
	switch f.Filter {
	case models.FilterJumps, models.FilterNormal:
	default:
		f.Filter = models.FilterAll
	}
	if !repository.IsSortable(f.SortBy) {
		f.SortBy = "TimeStart"
	}
	if f.SortOrder != "desc" {
		f.SortOrder = "asc"
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

// Job resolves jobID to a completed job. An empty jobID selects the latest
// completed job, from this process or an earlier one.
func (s *ResultService) Job(jobID string) (*models.AnalysisJob, error) {
	if jobID != "" {
		job, err := s.registry.Get(jobID)
		if err != nil {
			return nil, err
		}
		if job.Status != models.JobStatusCompleted {
			return nil, fmt.Errorf("job %s is %s: %w", jobID, job.Status, ErrNoResults)
		}
		return job, nil
	}

	if job, ok := s.registry.Latest(); ok {
		return job, nil
	}
	job, err := s.jobRepo.LatestCompleted()
	if errors.Is(err, jobs.ErrJobNotFound) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func exportRow(p models.PeriodAnalysis) []string {
	return []string{
		p.TimeStart.Format(models.TimeLayout),
		p.TimeEnd.Format(models.TimeLayout),
		formatFloat(p.DurationMinutes),
		p.State,
		p.AllStates,
		p.TowerJumpLabel(),
		formatFloat(p.ConfidenceLevel),
		strconv.Itoa(p.RecordCount),
		strconv.Itoa(p.StateChanges),
		formatFloat(p.MaxSpeedKMH),
		formatFloat(p.MaxDistanceKM),
		formatOptional(p.AvgLatitude),
		formatOptional(p.AvgLongitude),
		p.CentroidCell,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
