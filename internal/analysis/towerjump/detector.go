package towerjump

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/spatial"
	"github.com/jengzang/towerjump-backend-go/internal/stats"
)

// Name is the analyzer name used in logs and job records
const Name = "tower_jump"

// Detector flags tower jumps in carrier location data.
// It holds only immutable configuration and is safe for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector validates cfg and creates a detector
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}

	pairs := make([]RegionPair, len(cfg.BorderExceptionPairs))
	copy(pairs, cfg.BorderExceptionPairs)
	cfg.BorderExceptionPairs = pairs

	return &Detector{cfg: cfg}, nil
}

// Config returns a copy of the detector configuration
func (d *Detector) Config() Config {
	cfg := d.cfg
	cfg.BorderExceptionPairs = append([]RegionPair(nil), d.cfg.BorderExceptionPairs...)
	return cfg
}

// GetName returns the analyzer name
func (d *Detector) GetName() string {
	return Name
}

// Analyze segments sorted records and scores every period
func (d *Detector) Analyze(records []models.LocationRecord) []models.PeriodAnalysis {
	periods := Segment(records, d.cfg.WindowMinutes)
	if len(periods) == 0 {
		return nil
	}

	results := make([]models.PeriodAnalysis, 0, len(periods))
	byRule := make(map[Rule]int)
	for _, p := range periods {
		result, rule := d.analyzePeriod(p)
		if rule != RuleNone {
			byRule[rule]++
		}
		results = append(results, result)
	}

	if len(byRule) > 0 {
		log.Printf("[%s] Tower jumps by rule: %s", Name, formatRuleCounts(byRule))
	}
	return results
}

// AnalyzePeriod classifies and scores a single period
func (d *Detector) AnalyzePeriod(p models.TimePeriod) models.PeriodAnalysis {
	result, _ := d.analyzePeriod(p)
	return result
}

func (d *Detector) analyzePeriod(p models.TimePeriod) (models.PeriodAnalysis, Rule) {
	m, rule := d.Explain(p)
	isJump := rule != RuleNone
	confidence := Confidence(m, isJump, d.cfg)

	result := models.PeriodAnalysis{
		TimeStart:       p.StartTime,
		TimeEnd:         p.EndTime,
		DurationMinutes: stats.Round(m.DurationMinutes, 2),
		State:           m.PrimaryRegion,
		AllStates:       strings.Join(m.UniqueRegions, ", "),
		IsTowerJump:     isJump,
		ConfidenceLevel: stats.Round(confidence, 1),
		RecordCount:     m.RecordCount,
		StateChanges:    m.RegionTransitions,
		MaxSpeedKMH:     stats.Round(m.MaxConsecutiveSpeedKmh, 1),
		MaxDistanceKM:   stats.Round(m.MaxPairwiseDistanceKm, 2),
	}

	if !math.IsNaN(m.CentroidLat) && !math.IsNaN(m.CentroidLon) {
		lat := stats.Round(m.CentroidLat, 6)
		lon := stats.Round(m.CentroidLon, 6)
		result.AvgLatitude = &lat
		result.AvgLongitude = &lon
		result.CentroidCell = spatial.CellToken(m.CentroidLat, m.CentroidLon, spatial.CentroidCellLevel)
	}

	return result, rule
}

// Explain returns the metrics and first matching rule for a period
func (d *Detector) Explain(p models.TimePeriod) (Metrics, Rule) {
	m := ComputeMetrics(p)
	_, rule := Classify(m, d.cfg)
	return m, rule
}

// formatRuleCounts renders counts in rule evaluation order, e.g. "EXCESSIVE_SPEED=2, PING_PONG=1"
func formatRuleCounts(counts map[Rule]int) string {
	parts := make([]string, 0, len(counts))
	for r := RuleExcessiveSpeed; r <= RuleBorderPingPong; r++ {
		if n := counts[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", r, n))
		}
	}
	return strings.Join(parts, ", ")
}
