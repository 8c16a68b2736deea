package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

// CentroidCellLevel is the s2 level used to label period centroids (roughly 10 km cells)
const CentroidCellLevel = 10

// Centroid calculates the arithmetic mean latitude and longitude of all coordinates.
// Absent coordinates are not filtered: they contribute NaN, so the centroid of a
// set containing one is NaN.
func Centroid(coords []models.Coordinate) (lat, lon float64) {
	if len(coords) == 0 {
		return math.NaN(), math.NaN()
	}

	var sumLat, sumLon float64
	for _, c := range coords {
		if !c.Valid {
			return math.NaN(), math.NaN()
		}
		sumLat += c.Lat
		sumLon += c.Lon
	}

	n := float64(len(coords))
	return sumLat / n, sumLon / n
}

// CellToken returns the s2 cell token containing the point at the given level,
// or "" when the point is not a valid lat/lng
func CellToken(lat, lon float64, level int) string {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ""
	}
	ll := s2.LatLngFromDegrees(lat, lon)
	if !ll.IsValid() {
		return ""
	}
	return s2.CellIDFromLatLng(ll).Parent(level).ToToken()
}
