package models

import "time"

// TargetSnapshot is what remote displays poll or stream.
type TargetSnapshot struct {
	TargetTempC float64   `json:"target_temp_c"`
	ActualTemp  any       `json:"actual_temp,omitempty"`
	DayType     DayType   `json:"day_type"`
	At          time.Time `json:"at"`
}
