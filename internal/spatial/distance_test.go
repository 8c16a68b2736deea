package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/towerjump-backend-go/internal/models"
)

func TestDistanceKmOneDegreeLatitude(t *testing.T) {
	d, err := DistanceKm(models.NewCoordinate(40.0, -74.0), models.NewCoordinate(41.0, -74.0))
	require.NoError(t, err)
	assert.Greater(t, d, 100.0)
	assert.Less(t, d, 120.0)
}

func TestDistanceKmSymmetricAndZero(t *testing.T) {
	a := models.NewCoordinate(40.7128, -74.0060)
	b := models.NewCoordinate(41.7658, -72.6734)

	ab, err := DistanceKm(a, b)
	require.NoError(t, err)
	ba, err := DistanceKm(b, a)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-9)

	same, err := DistanceKm(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, same, 1e-9)
}

func TestDistanceKmNewYorkToHartford(t *testing.T) {
	// WGS84 reference distance, 161.72 km
	a := models.NewCoordinate(40.7128, -74.0060)
	b := models.NewCoordinate(41.7658, -72.6734)

	d, err := DistanceKm(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 161.72, d, 0.05)
}

func TestDistanceKmInvalidCoordinate(t *testing.T) {
	valid := models.NewCoordinate(40.0, -74.0)

	cases := map[string]models.Coordinate{
		"absent":       models.AbsentCoordinate(),
		"zero invalid": {Lat: 0, Lon: 0, Valid: false},
		"nan":          {Lat: math.NaN(), Lon: 1, Valid: true},
		"inf":          {Lat: 1, Lon: math.Inf(1), Valid: true},
		"lat range":    {Lat: 91, Lon: 0, Valid: true},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DistanceKm(valid, c)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
			_, err = DistanceKm(c, valid)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestSpeedKmh(t *testing.T) {
	assert.Equal(t, 120.0, SpeedKmh(60, 0.5))
	assert.Equal(t, 0.0, SpeedKmh(0, 1))
}

func TestCentroid(t *testing.T) {
	lat, lon := Centroid([]models.Coordinate{
		models.NewCoordinate(40, -74),
		models.NewCoordinate(42, -72),
	})
	assert.Equal(t, 41.0, lat)
	assert.Equal(t, -73.0, lon)

	lat, lon = Centroid([]models.Coordinate{
		models.NewCoordinate(40, -74),
		models.AbsentCoordinate(),
	})
	assert.True(t, math.IsNaN(lat))
	assert.True(t, math.IsNaN(lon))

	lat, _ = Centroid(nil)
	assert.True(t, math.IsNaN(lat))
}

func TestCellToken(t *testing.T) {
	tok := CellToken(40.7128, -74.0060, CentroidCellLevel)
	assert.NotEmpty(t, tok)
	assert.Equal(t, tok, CellToken(40.7128, -74.0060, CentroidCellLevel))
	assert.NotEqual(t, tok, CellToken(34.0522, -118.2437, CentroidCellLevel))
	assert.Empty(t, CellToken(math.NaN(), 0, CentroidCellLevel))
}
