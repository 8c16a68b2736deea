package models

import "time"

// TimeLayout is the wall-clock format used for period boundaries in storage and exports
const TimeLayout = "2006-01-02 15:04:05"

// PeriodAnalysis is the scored, classified result for one time period
type PeriodAnalysis struct {
	TimeStart       time.Time `json:"TimeStart"`
	TimeEnd         time.Time `json:"TimeEnd"`
	DurationMinutes float64   `json:"DurationMinutes"`
	State           string    `json:"State"`     // primary region
	AllStates       string    `json:"AllStates"` // unique regions, ", " separated
	IsTowerJump     bool      `json:"IsTowerJump"`
	ConfidenceLevel float64   `json:"ConfidenceLevel"` // 0-100
	RecordCount     int       `json:"RecordCount"`
	StateChanges    int       `json:"StateChanges"`
	MaxSpeedKMH     float64   `json:"MaxSpeedKMH"`
	MaxDistanceKM   float64   `json:"MaxDistanceKM"`

	// nil when the period contains an absent coordinate
	AvgLatitude  *float64 `json:"AvgLatitude"`
	AvgLongitude *float64 `json:"AvgLongitude"`
	CentroidCell string   `json:"CentroidCell,omitempty"` // s2 cell token
}

// TowerJumpLabel renders the classification the way exports expect it
func (p PeriodAnalysis) TowerJumpLabel() string {
	if p.IsTowerJump {
		return "yes"
	}
	return "no"
}

// DateRange is an inclusive time span
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary aggregates every period of one analysis run
type Summary struct {
	TotalPeriods        int       `json:"total_periods"`
	TowerJumpsDetected  int       `json:"tower_jumps_detected"`
	TowerJumpPercentage float64   `json:"tower_jump_percentage"`
	AvgConfidence       float64   `json:"avg_confidence"`
	MaxSpeedDetected    float64   `json:"max_speed_detected"`
	StatesInvolved      []string  `json:"states_involved"`
	DateRange           DateRange `json:"date_range"`
}
