package models

import (
	"math"
	"time"
)

// Coordinate is a latitude/longitude pair in degrees.
// Valid is false when the source row carried no usable numeric coordinate.
type Coordinate struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Valid bool    `json:"valid"`
}

// NewCoordinate builds a valid coordinate
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon, Valid: true}
}

// AbsentCoordinate returns the marker used for missing or non-numeric coordinates
func AbsentCoordinate() Coordinate {
	return Coordinate{Lat: math.NaN(), Lon: math.NaN()}
}

// IsUsable reports whether the coordinate can take part in distance calculations
func (c Coordinate) IsUsable() bool {
	if !c.Valid {
		return false
	}
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90
}

// LocationRecord is a single carrier location ping
type LocationRecord struct {
	Timestamp time.Time  `json:"timestamp"` // UTC
	Region    string     `json:"region"`    // State column, may be empty
	Coord     Coordinate `json:"coord"`

	// Informational columns carried through ingest
	City     string `json:"city,omitempty"`
	County   string `json:"county,omitempty"`
	Country  string `json:"country,omitempty"`
	CellType string `json:"cell_type,omitempty"`
}

// TimePeriod is a maximal chronological run of records with no internal gap
// larger than the segmentation window
type TimePeriod struct {
	StartTime     time.Time
	EndTime       time.Time
	RecordIndices []int
	Regions       []string
	Coordinates   []Coordinate
	Timestamps    []time.Time
}

// Len returns the number of records in the period
func (p *TimePeriod) Len() int {
	return len(p.RecordIndices)
}
