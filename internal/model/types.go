// Package model defines shared data structures.
package model

import "time"

// Position is a discrete location in the mushaf.
type Position struct {
	Page int `json:"page"`
	Line int `json:"line"`
}

// TrackerConfig defines the reading period and how many hatam to finish in it.
type TrackerConfig struct {
	StartDate   time.Time `json:"startDate"`
	TargetCount int       `json:"targetCount"`
}

// ActualPosition is the user-reported reading position.
type ActualPosition struct {
	Page      int       `json:"page"`
	Line      int       `json:"line"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Position returns the page/line part of the actual position.
func (a ActualPosition) Position() Position {
	return Position{Page: a.Page, Line: a.Line}
}

// TargetStats is derived from a TrackerConfig and the current time.
type TargetStats struct {
	TargetDecimalPage      float64  `json:"targetDecimalPage"`
	TargetPosition         Position `json:"targetPosition"`
	CurrentHatam           int      `json:"currentHatam"`
	ProgressInCurrentHatam float64  `json:"progressInCurrentHatam"`
	TotalProgressPercent   float64  `json:"totalProgressPercentage"`
	CurrentHatamPercent    float64  `json:"currentHatamPercentage"`
	PacePerHour            float64  `json:"pacePerHour"`
	HoursElapsed           float64  `json:"hoursElapsed"`
	TotalHours             float64  `json:"totalHours"`
	HoursRemaining         float64  `json:"hoursRemaining"`
	DaysRemaining          int      `json:"daysRemaining"`
	TotalTargetPages       int      `json:"totalTargetPages"`
}

// Status classifies an actual position against the target.
type Status string

// Comparison statuses.
const (
	StatusAhead   Status = "ahead"
	StatusOnTrack Status = "on-track"
	StatusBehind  Status = "behind"
)

// ComparisonResult describes how far the actual position is from the target.
type ComparisonResult struct {
	Status                 Status  `json:"status"`
	PageDifference         int     `json:"pageDifference"`
	LineDifference         int     `json:"lineDifference"`
	TotalDifferenceDecimal float64 `json:"totalDifferenceDecimal"`
	Message                string  `json:"message"`
}

// PositionLogEntry records one saved actual position.
type PositionLogEntry struct {
	ID         int64
	Page       int
	Line       int
	RecordedAt time.Time
}

// Preferences holds runtime settings merged from flags, env, and config file.
type Preferences struct {
	Location    *time.Location
	Refresh     time.Duration
	StartDate   string
	TargetCount int
}
