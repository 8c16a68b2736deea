package towerjump

import (
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// Segment partitions chronologically sorted records into periods.
// A record opens a new period when its gap to the current period's end is
// strictly greater than windowMinutes; equal timestamps always extend.
func Segment(records []models.LocationRecord, windowMinutes float64) []models.TimePeriod {
	if len(records) == 0 {
		return nil
	}

	var periods []models.TimePeriod
	current := newPeriod(0, records[0])

	for i := 1; i < len(records); i++ {
		rec := records[i]
		gap := rec.Timestamp.Sub(current.EndTime).Minutes()

		if gap > windowMinutes {
			periods = append(periods, current)
			current = newPeriod(i, rec)
			continue
		}

		current.EndTime = rec.Timestamp
		current.RecordIndices = append(current.RecordIndices, i)
		current.Regions = append(current.Regions, rec.Region)
		current.Coordinates = append(current.Coordinates, rec.Coord)
		current.Timestamps = append(current.Timestamps, rec.Timestamp)
	}

	return append(periods, current)
}

func newPeriod(index int, rec models.LocationRecord) models.TimePeriod {
	return models.TimePeriod{
		StartTime:     rec.Timestamp,
		EndTime:       rec.Timestamp,
		RecordIndices: []int{index},
		Regions:       []string{rec.Region},
		Coordinates:   []models.Coordinate{rec.Coord},
		Timestamps:    []time.Time{rec.Timestamp},
	}
}
