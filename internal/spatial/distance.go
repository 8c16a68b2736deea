package spatial

import (
	"errors"
	"math"

	"github.com/golang/geo/s2"
	"github.com/tidwall/geodesic"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// ErrInvalidCoordinate is returned when a coordinate is absent, non-finite or out of range
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// DistanceKm calculates the geodesic distance between two coordinates in kilometers
// on the WGS84 ellipsoid (Karney's algorithm)
func DistanceKm(a, b models.Coordinate) (float64, error) {
	if !usable(a) || !usable(b) {
		return 0, ErrInvalidCoordinate
	}

	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &meters, nil, nil)
	if math.IsNaN(meters) {
		return 0, ErrInvalidCoordinate
	}
	return math.Abs(meters) / 1000, nil
}

// SpeedKmh derives a speed from a distance and an elapsed time.
// Callers must skip pairs with elapsedHours <= 0.
func SpeedKmh(distanceKm, elapsedHours float64) float64 {
	return distanceKm / elapsedHours
}

func usable(c models.Coordinate) bool {
	if !c.IsUsable() {
		return false
	}
	return s2.LatLngFromDegrees(c.Lat, c.Lon).IsValid()
}
