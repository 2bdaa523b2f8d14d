package service

import (
	"time"

	"thermostat/internal/models"
)

const hoursPerDay = 24.0

// HoursToTemp returns the target temperature at hour on a cyclic 24h day.
// Points are linearly interpolated; the last point connects to the first
// point of the next day and the first to the last point of the previous day.
// profile must be sorted by hour.
func HoursToTemp(hour float64, profile models.DayProfile) (float64, error) {
	n := len(profile)
	if n == 0 {
		return 0, ErrEmptyProfile
	}
	if n == 1 {
		return profile[0].Temp, nil
	}

	first, last := profile[0], profile[n-1]
	switch {
	case hour >= last.Hour:
		next := models.ControlPoint{Hour: first.Hour + hoursPerDay, Temp: first.Temp}
		return lerp(last, next, hour), nil
	case hour <= first.Hour:
		prev := models.ControlPoint{Hour: last.Hour - hoursPerDay, Temp: last.Temp}
		return lerp(prev, first, hour), nil
	}

	for i := 0; i < n-1; i++ {
		if profile[i].Hour <= hour && hour <= profile[i+1].Hour {
			return lerp(profile[i], profile[i+1], hour), nil
		}
	}
	// unreachable for a sorted profile
	return last.Temp, nil
}

// lerp interpolates between prev and next. Values at either end are returned
// exactly, and coincident hours resolve to prev.
func lerp(prev, next models.ControlPoint, hour float64) float64 {
	span := next.Hour - prev.Hour
	switch {
	case hour == prev.Hour || span == 0:
		return prev.Temp
	case hour == next.Hour:
		return next.Temp
	}
	t := (hour - prev.Hour) / span
	return prev.Temp + t*(next.Temp-prev.Temp)
}

// HourFraction converts a wall-clock time to hours since midnight at minute
// resolution.
func HourFraction(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
