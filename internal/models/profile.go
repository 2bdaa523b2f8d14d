package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DayType names one of the two daily schedules.
type DayType string

const (
	Weekdays DayType = "weekdays"
	Weekends DayType = "weekends"
)

// ControlPoint is one vertex of a day schedule. Its JSON form is [hour, temp].
type ControlPoint struct {
	Hour float64
	Temp float64
}

// Label is the text form used to address the point from the UI.
func (p ControlPoint) Label() string {
	return strconv.FormatFloat(p.Hour, 'f', -1, 64)
}

func (p ControlPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Hour, p.Temp})
}

func (p *ControlPoint) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("control point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("control point: want [hour, temp], got %d values", len(pair))
	}
	p.Hour, p.Temp = pair[0], pair[1]
	return nil
}

// DayProfile is a cyclic, hour-ordered list of control points.
type DayProfile []ControlPoint

// Clone returns an independent copy.
func (d DayProfile) Clone() DayProfile {
	if d == nil {
		return nil
	}
	out := make(DayProfile, len(d))
	copy(out, d)
	return out
}

// ProfileSet holds both schedules.
type ProfileSet struct {
	Weekdays DayProfile `json:"weekdays"`
	Weekends DayProfile `json:"weekends"`
}

// Clone deep-copies both profiles.
func (s ProfileSet) Clone() ProfileSet {
	return ProfileSet{Weekdays: s.Weekdays.Clone(), Weekends: s.Weekends.Clone()}
}

// Profile returns the schedule for dt.
func (s ProfileSet) Profile(dt DayType) (DayProfile, bool) {
	switch dt {
	case Weekdays:
		return s.Weekdays, true
	case Weekends:
		return s.Weekends, true
	}
	return nil, false
}

var defaultProfile = DayProfile{
	{0, 17}, {5, 17}, {6, 23}, {7, 23}, {8, 23}, {9, 21}, {10, 20}, {12, 20}, {14, 20},
	{16, 20}, {17, 22}, {18, 23}, {19, 23}, {20, 23}, {21, 22}, {22, 21}, {23, 19}, {23.5, 17},
}

// DefaultProfileSet returns the built-in schedule with independent copies per day type.
func DefaultProfileSet() ProfileSet {
	return ProfileSet{
		Weekdays: defaultProfile.Clone(),
		Weekends: defaultProfile.Clone(),
	}
}
