package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 9.5, Max([]float64{3, 9.5, -1}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 66.7, Round(66.66666, 1))
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, -2.5, Round(-2.46, 1))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 100.0, Clamp(130, 0, 100))
	assert.Equal(t, 0.0, Clamp(-4, 0, 100))
	assert.Equal(t, 55.0, Clamp(55, 0, 100))
}
