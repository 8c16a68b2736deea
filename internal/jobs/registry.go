package jobs

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

var (
	// ErrJobNotFound is returned for unknown job IDs
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidTransition is returned when a status change breaks
	// pending -> running -> completed|failed
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// Store persists job snapshots. Save errors are logged, never returned to callers.
type Store interface {
	SaveJob(job *models.AnalysisJob) error
	// GetJob returns ErrJobNotFound (possibly wrapped) for unknown IDs
	GetJob(id string) (*models.AnalysisJob, error)
}

// Registry tracks analysis jobs in memory, writing through to an optional Store.
// All methods are safe for concurrent use and return copies.
type Registry struct {
	mu    sync.Mutex
	jobs  map[string]*models.AnalysisJob
	order []string // creation order
	store Store
	now   func() time.Time
}

// NewRegistry creates a registry; store may be nil
func NewRegistry(store Store) *Registry {
	return &Registry{
		jobs:  make(map[string]*models.AnalysisJob),
		store: store,
		now:   time.Now,
	}
}

// Create registers a new pending job
func (r *Registry) Create() *models.AnalysisJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	job := &models.AnalysisJob{
		ID:        uuid.NewString(),
		Status:    models.JobStatusPending,
		Progress:  "Analysis job created",
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[job.ID] = job
	r.order = append(r.order, job.ID)
	r.persist(job)

	return cloneJob(job)
}

// MarkRunning moves a pending job to running
func (r *Registry) MarkRunning(id, progress string) error {
	return r.update(id, func(job *models.AnalysisJob) error {
		if job.Status != models.JobStatusPending {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, models.JobStatusRunning)
		}
		job.Status = models.JobStatusRunning
		job.Progress = progress
		return nil
	})
}

// SetProgress updates the stage message of a running job
func (r *Registry) SetProgress(id, progress string) error {
	return r.update(id, func(job *models.AnalysisJob) error {
		if job.Status != models.JobStatusRunning {
			return fmt.Errorf("%w: progress on %s job", ErrInvalidTransition, job.Status)
		}
		job.Progress = progress
		return nil
	})
}

// Complete marks a running job completed with its results
func (r *Registry) Complete(id string, totalPeriods, jumps int, summary *models.Summary) error {
	return r.update(id, func(job *models.AnalysisJob) error {
		if job.Status != models.JobStatusRunning {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, models.JobStatusCompleted)
		}
		job.Status = models.JobStatusCompleted
		job.Progress = "Analysis completed successfully"
		job.TotalPeriods = totalPeriods
		job.TowerJumpsDetected = jumps
		job.Summary = cloneSummary(summary)
		return nil
	})
}

// Fail marks a pending or running job failed
func (r *Registry) Fail(id, message string) error {
	return r.update(id, func(job *models.AnalysisJob) error {
		if job.IsTerminal() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, models.JobStatusFailed)
		}
		job.Status = models.JobStatusFailed
		job.Progress = "Analysis failed"
		job.ErrorMessage = message
		return nil
	})
}

// Get returns a job by ID, falling back to the store for jobs from earlier runs
func (r *Registry) Get(id string) (*models.AnalysisJob, error) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	var c *models.AnalysisJob
	if ok {
		c = cloneJob(job)
	}
	r.mu.Unlock()

	if ok {
		return c, nil
	}
	if r.store == nil {
		return nil, ErrJobNotFound
	}
	return r.store.GetJob(id)
}

// Latest returns the most recently completed job in this process
func (r *Registry) Latest() (*models.AnalysisJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *models.AnalysisJob
	for _, id := range r.order {
		job := r.jobs[id]
		if job.Status != models.JobStatusCompleted {
			continue
		}
		if latest == nil || !job.UpdatedAt.Before(latest.UpdatedAt) {
			latest = job
		}
	}
	if latest == nil {
		return nil, false
	}
	return cloneJob(latest), true
}

func (r *Registry) update(id string, fn func(*models.AnalysisJob) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if err := fn(job); err != nil {
		return err
	}
	job.UpdatedAt = r.now().UTC()
	r.persist(job)
	return nil
}

// persist is called with mu held
func (r *Registry) persist(job *models.AnalysisJob) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveJob(cloneJob(job)); err != nil {
		log.Printf("[JobRegistry] Failed to persist job %s: %v", job.ID, err)
	}
}

func cloneJob(job *models.AnalysisJob) *models.AnalysisJob {
	c := *job
	c.Summary = cloneSummary(job.Summary)
	return &c
}

func cloneSummary(s *models.Summary) *models.Summary {
	if s == nil {
		return nil
	}
	c := *s
	c.StatesInvolved = append([]string(nil), s.StatesInvolved...)
	return &c
}
