package towerjump

import (
	"github.com/jengzang/towerjump-backend-go/internal/models"
	"github.com/jengzang/towerjump-backend-go/internal/spatial"
)

// Metrics holds the kinematic and region measurements of one period
type Metrics struct {
	DurationMinutes        float64
	RecordCount            int
	UniqueRegions          []string // first-seen order
	RegionTransitions      int
	MaxPairwiseDistanceKm  float64
	MaxConsecutiveSpeedKmh float64
	PrimaryRegion          string
	CentroidLat            float64 // NaN when any coordinate is absent
	CentroidLon            float64
}

// HasRegion reports whether the period visited the region
func (m Metrics) HasRegion(region string) bool {
	for _, r := range m.UniqueRegions {
		if r == region {
			return true
		}
	}
	return false
}

// ContainsPair reports whether both regions of any pair were visited
func (m Metrics) ContainsPair(pairs []RegionPair) bool {
	for _, p := range pairs {
		if m.HasRegion(p.A) && m.HasRegion(p.B) {
			return true
		}
	}
	return false
}

// ComputeMetrics measures a single period
func ComputeMetrics(p models.TimePeriod) Metrics {
	lat, lon := spatial.Centroid(p.Coordinates)

	return Metrics{
		DurationMinutes:        p.EndTime.Sub(p.StartTime).Minutes(),
		RecordCount:            p.Len(),
		UniqueRegions:          uniqueRegions(p.Regions),
		RegionTransitions:      regionTransitions(p.Regions),
		MaxPairwiseDistanceKm:  maxPairwiseDistance(p.Coordinates),
		MaxConsecutiveSpeedKmh: maxConsecutiveSpeed(p),
		PrimaryRegion:          primaryRegion(p.Regions),
		CentroidLat:            lat,
		CentroidLon:            lon,
	}
}

func uniqueRegions(regions []string) []string {
	seen := make(map[string]bool, len(regions))
	var out []string
	for _, r := range regions {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func regionTransitions(regions []string) int {
	n := 0
	for i := 1; i < len(regions); i++ {
		if regions[i] != regions[i-1] {
			n++
		}
	}
	return n
}

// primaryRegion returns the most visited region; on equal counts the region
// encountered first in the scan wins
func primaryRegion(regions []string) string {
	counts := make(map[string]int, len(regions))
	var order []string
	for _, r := range regions {
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}

	best := ""
	bestCount := 0
	for _, r := range order {
		if counts[r] > bestCount {
			best = r
			bestCount = counts[r]
		}
	}
	return best
}

func maxPairwiseDistance(coords []models.Coordinate) float64 {
	maxDist := 0.0
	for i := 0; i < len(coords); i++ {
		for j := i + 1; j < len(coords); j++ {
			d, err := spatial.DistanceKm(coords[i], coords[j])
			if err != nil {
				continue
			}
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}

func maxConsecutiveSpeed(p models.TimePeriod) float64 {
	maxSpeed := 0.0
	n := min(len(p.Coordinates), len(p.Timestamps))
	for i := 1; i < n; i++ {
		hours := p.Timestamps[i].Sub(p.Timestamps[i-1]).Hours()
		if hours <= 0 {
			continue
		}

		d, err := spatial.DistanceKm(p.Coordinates[i-1], p.Coordinates[i])
		if err != nil {
			continue
		}

		if speed := spatial.SpeedKmh(d, hours); speed > maxSpeed {
			maxSpeed = speed
		}
	}
	return maxSpeed
}
