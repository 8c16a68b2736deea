package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/jengzang/towerjump-backend-go/internal/ingest"
	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// ErrNoDataset is returned when an operation needs an uploaded dataset
var ErrNoDataset = errors.New("no data uploaded, please upload a CSV file first")

// DatasetService holds the most recently uploaded dataset
type DatasetService struct {
	mu       sync.RWMutex
	dataset  *ingest.Dataset
	filename string
}

// NewDatasetService creates a new dataset service
func NewDatasetService() *DatasetService {
	return &DatasetService{}
}

// Upload parses r and, on success, replaces the current dataset
func (s *DatasetService) Upload(filename string, r io.Reader) (*models.UploadResult, error) {
	ds, err := ingest.Load(r)
	if err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}

	s.mu.Lock()
	s.dataset = ds
	s.filename = filename
	s.mu.Unlock()

	log.Printf("[DatasetService] Loaded %s: %d records (%d dropped)", filename, len(ds.Records), ds.DroppedRows)

	return &models.UploadResult{
		Message:   "File uploaded successfully",
		Filename:  filename,
		Records:   len(ds.Records),
		Columns:   ds.Columns,
		DateRange: ds.DateRange(),
	}, nil
}

// Current returns the current records. The slice is shared and must not be modified.
func (s *DatasetService) Current() ([]models.LocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset.Records, nil
}

// Stats describes the current dataset
func (s *DatasetService) Stats() (*models.DatasetStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	stats := s.dataset.Stats()
	return &stats, nil
}
