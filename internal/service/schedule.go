package service

import (
	"fmt"
	"strings"
	"time"

	"thermostat/internal/models"
)

// WeekSchedule maps a day of the week to a profile. Days marked as weekend
// use the weekends profile; all others use weekdays.
type WeekSchedule struct {
	loc     *time.Location
	weekend [7]bool
}

// DefaultWeekSchedule uses Monday–Friday as weekdays in the process time zone.
func DefaultWeekSchedule() WeekSchedule {
	var w WeekSchedule
	w.loc = time.Local
	w.weekend[time.Saturday] = true
	w.weekend[time.Sunday] = true
	return w
}

// NewWeekSchedule builds a schedule from weekday names ("saturday", "sun", ...).
// A nil location means time.Local.
func NewWeekSchedule(loc *time.Location, weekendDays []string) (WeekSchedule, error) {
	if loc == nil {
		loc = time.Local
	}
	w := WeekSchedule{loc: loc}
	for _, name := range weekendDays {
		d, err := parseWeekday(name)
		if err != nil {
			return WeekSchedule{}, err
		}
		w.weekend[d] = true
	}
	return w, nil
}

// In converts t to the schedule's time zone.
func (w WeekSchedule) In(t time.Time) time.Time {
	if w.loc == nil {
		return t
	}
	return t.In(w.loc)
}

// DayType classifies t after converting it to the schedule's zone.
func (w WeekSchedule) DayType(t time.Time) models.DayType {
	if w.weekend[w.In(t).Weekday()] {
		return models.Weekends
	}
	return models.Weekdays
}

func parseWeekday(name string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if strings.HasPrefix(full, s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
