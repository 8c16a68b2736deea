package towerjump

import (
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

var baseTime = time.Date(2022, 1, 26, 22, 0, 0, 0, time.UTC)

func rec(offsetMinutes float64, region string, lat, lon float64) models.LocationRecord {
	return models.LocationRecord{
		Timestamp: baseTime.Add(time.Duration(offsetMinutes * float64(time.Minute))),
		Region:    region,
		Coord:     models.NewCoordinate(lat, lon),
	}
}

func recAbsent(offsetMinutes float64, region string) models.LocationRecord {
	r := rec(offsetMinutes, region, 0, 0)
	r.Coord = models.AbsentCoordinate()
	return r
}

// onePeriod builds a period from records without going through the segmenter
func onePeriod(records ...models.LocationRecord) models.TimePeriod {
	p := newPeriod(0, records[0])
	for i := 1; i < len(records); i++ {
		p.EndTime = records[i].Timestamp
		p.RecordIndices = append(p.RecordIndices, i)
		p.Regions = append(p.Regions, records[i].Region)
		p.Coordinates = append(p.Coordinates, records[i].Coord)
		p.Timestamps = append(p.Timestamps, records[i].Timestamp)
	}
	return p
}

const (
	newYork     = "New York"
	connecticut = "Connecticut"
)

// Coordinates used across tests
var (
	nyc         = [2]float64{40.7128, -74.0060}
	stamford    = [2]float64{41.2033, -73.1234}
	timesSquare = [2]float64{40.7589, -73.9851}
)
