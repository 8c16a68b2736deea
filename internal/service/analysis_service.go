package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jengzang/towerjump-backend-go/internal/analysis"
	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/repository"
)

// ProgressInitializing is the first stage message of a running job
const ProgressInitializing = "Initializing tower jump detector..."

var errCancelled = errors.New("analysis cancelled")

// AnalysisService runs analyses in the background and tracks them as jobs
type AnalysisService struct {
	datasets *DatasetService
	analyzer analysis.Analyzer
	registry *jobs.Registry
	periods  *repository.PeriodRepository

	ctx    context.Context // cancelled by Close
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(datasets *DatasetService, analyzer analysis.Analyzer, registry *jobs.Registry, periods *repository.PeriodRepository) *AnalysisService {
	ctx, cancel := context.WithCancel(context.Background())
	return &AnalysisService{
		datasets: datasets,
		analyzer: analyzer,
		registry: registry,
		periods:  periods,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start creates a pending job over the current dataset and runs it in a
// goroutine. The job outlives ctx; ctx only gates the start.
func (s *AnalysisService) Start(ctx context.Context) (*models.AnalysisJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	job := s.registry.Create()
	log.Printf("[AnalysisService] Created job %s over %d records", job.ID, len(records))

	s.wg.Add(1)
	go s.run(job.ID, records)

	return job, nil
}

// Status returns a job by ID
func (s *AnalysisService) Status(id string) (*models.AnalysisJob, error) {
	return s.registry.Get(id)
}

// Wait blocks until every started job has finished
func (s *AnalysisService) Wait() {
	s.wg.Wait()
}

// Close cancels jobs that have not reached their next stage and waits for all of them
func (s *AnalysisService) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *AnalysisService) run(jobID string, records []models.LocationRecord) {
	defer s.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[AnalysisService] Job %s panicked: %v", jobID, p)
			s.fail(jobID, fmt.Errorf("analysis panicked: %v", p))
		}
	}()

	if err := s.registry.MarkRunning(jobID, ProgressInitializing); err != nil {
		log.Printf("[AnalysisService] Failed to start job %s: %v", jobID, err)
		return
	}

	if s.ctx.Err() != nil {
		s.fail(jobID, errCancelled)
		return
	}

	results, summary := analysis.Run(s.analyzer, records, func(msg string) {
		if err := s.registry.SetProgress(jobID, msg); err != nil {
			log.Printf("[AnalysisService] Failed to update progress of job %s: %v", jobID, err)
		}
	})

	if s.ctx.Err() != nil {
		s.fail(jobID, errCancelled)
		return
	}

	if err := s.periods.SaveResults(jobID, results); err != nil {
		s.fail(jobID, fmt.Errorf("failed to save results: %w", err))
		return
	}

	jumps := 0
	for _, r := range results {
		if r.IsTowerJump {
			jumps++
		}
	}

	if err := s.registry.Complete(jobID, len(results), jumps, summary); err != nil {
		log.Printf("[AnalysisService] Failed to complete job %s: %v", jobID, err)
		return
	}
	log.Printf("[AnalysisService] Job %s completed: %d periods, %d tower jumps", jobID, len(results), jumps)
}

func (s *AnalysisService) fail(jobID string, err error) {
	log.Printf("[AnalysisService] Job %s failed: %v", jobID, err)
	if ferr := s.registry.Fail(jobID, err.Error()); ferr != nil {
		log.Printf("[AnalysisService] Failed to mark job %s failed: %v", jobID, ferr)
	}
}
