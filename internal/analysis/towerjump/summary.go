package towerjump

import (
	"sort"

	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/stats"
)

// Summarize reduces period analyses to summary statistics.
// It returns nil for an empty result set.
func (d *Detector) Summarize(results []models.PeriodAnalysis) *models.Summary {
	return Summarize(results)
}

// Summarize reduces period analyses to summary statistics.
// It returns nil for an empty result set.
func Summarize(results []models.PeriodAnalysis) *models.Summary {
	if len(results) == 0 {
		return nil
	}

	jumps := 0
	confidences := make([]float64, 0, len(results))
	speeds := make([]float64, 0, len(results))
	seen := make(map[string]bool)
	var states []string

	start := results[0].TimeStart
	end := results[0].TimeEnd

	for _, r := range results {
		if r.IsTowerJump {
			jumps++
		}
		confidences = append(confidences, r.ConfidenceLevel)
		speeds = append(speeds, r.MaxSpeedKMH)

		if !seen[r.State] {
			seen[r.State] = true
			states = append(states, r.State)
		}
		if r.TimeStart.Before(start) {
			start = r.TimeStart
		}
		if r.TimeEnd.After(end) {
			end = r.TimeEnd
		}
	}
	sort.Strings(states)

	return &models.Summary{
		TotalPeriods:        len(results),
		TowerJumpsDetected:  jumps,
		TowerJumpPercentage: stats.Round(float64(jumps)/float64(len(results))*100, 1),
		AvgConfidence:       stats.Round(stats.Mean(confidences), 1),
		MaxSpeedDetected:    stats.Round(stats.Max(speeds), 1),
		StatesInvolved:      states,
		DateRange: models.DateRange{
			Start: start.Format(models.TimeLayout),
			End:   end.Format(models.TimeLayout),
		},
	}
}
