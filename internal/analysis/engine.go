package analysis

import (
	"log"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// Analyzer is the interface a location analysis engine implements.
// Implementations must be safe to call from several goroutines at once.
type Analyzer interface {
	// Analyze scores chronologically sorted records period by period
	Analyze(records []models.LocationRecord) []models.PeriodAnalysis

	// Summarize reduces period results; nil for an empty set
	Summarize(results []models.PeriodAnalysis) *models.Summary

	// GetName returns the name of the analyzer
	GetName() string
}

// ProgressFunc receives human readable stage messages
type ProgressFunc func(message string)

// Progress messages reported by Run
const (
	ProgressSegmenting  = "Creating time periods from data... (may take a while for large files)"
	ProgressSummarizing = "Generating summary statistics..."
)

// Run executes an analyzer over records, reporting each stage to progress
func Run(a Analyzer, records []models.LocationRecord, progress ProgressFunc) ([]models.PeriodAnalysis, *models.Summary) {
	if progress == nil {
		progress = func(string) {}
	}

	progress(ProgressSegmenting)
	results := a.Analyze(records)

	progress(ProgressSummarizing)
	summary := a.Summarize(results)

	log.Printf("[%s] Analysis finished: %d records, %d periods", a.GetName(), len(records), len(results))
	return results, summary
}
