package towerjump

import (
	"fmt"
	"strings"
)

// RegionPair is two adjacent regions whose shared boundary produces frequent
// spurious transitions
type RegionPair struct {
	A string `yaml:"a" json:"a"`
	B string `yaml:"b" json:"b"`
}

// String renders the pair as "A/B"
func (p RegionPair) String() string {
	return p.A + "/" + p.B
}

// Config holds the detector thresholds
type Config struct {
	WindowMinutes        float64      // max gap inside one period
	MaxSpeedKmh          float64      // 1000 km/h ~ commercial aircraft
	BorderExceptionPairs []RegionPair // matched exactly, case sensitive
}

// Default thresholds
const (
	DefaultWindowMinutes = 30.0
	DefaultMaxSpeedKmh   = 1000.0
)

// DefaultBorderExceptionPairs is the NY/CT border, known for triangulation noise
var DefaultBorderExceptionPairs = []RegionPair{
	{A: "New York", B: "Connecticut"},
}

// DefaultConfig returns the default detector configuration
func DefaultConfig() Config {
	pairs := make([]RegionPair, len(DefaultBorderExceptionPairs))
	copy(pairs, DefaultBorderExceptionPairs)
	return Config{
		WindowMinutes:        DefaultWindowMinutes,
		MaxSpeedKmh:          DefaultMaxSpeedKmh,
		BorderExceptionPairs: pairs,
	}
}

// Validate checks the thresholds before any analysis runs
func (c Config) Validate() error {
	if !(c.WindowMinutes > 0) {
		return fmt.Errorf("window minutes must be positive, got %v", c.WindowMinutes)
	}
	if !(c.MaxSpeedKmh > 0) {
		return fmt.Errorf("max speed must be positive, got %v", c.MaxSpeedKmh)
	}
	for i, p := range c.BorderExceptionPairs {
		if strings.TrimSpace(p.A) == "" || strings.TrimSpace(p.B) == "" {
			return fmt.Errorf("border exception pair %d has an empty region", i)
		}
		if p.A == p.B {
			return fmt.Errorf("border exception pair %d repeats region %q", i, p.A)
		}
	}
	return nil
}
