package service

import (
	"errors"
	"testing"
	"time"

	"thermostat/internal/models"
)

var scenarioProfile = models.DayProfile{{Hour: 0, Temp: 17}, {Hour: 6, Temp: 23}, {Hour: 12, Temp: 20}, {Hour: 18, Temp: 23}}

func TestHoursToTemp_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		hour float64
		want float64
	}{
		{"midway up the morning ramp", 3, 20.0},
		{"late evening wraps to midnight", 23, 18.0},
		{"exact first point", 0, 17},
		{"exact last point", 18, 23},
		{"between middle points", 9, 21.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HoursToTemp(tc.hour, scenarioProfile)
			if err != nil {
				t.Fatalf("HoursToTemp: %v", err)
			}
			if got != tc.want {
				t.Fatalf("HoursToTemp(%v) = %v, want %v", tc.hour, got, tc.want)
			}
		})
	}
}

func TestHoursToTemp_ExactAtControlPoints(t *testing.T) {
	profiles := map[string]models.DayProfile{
		"default":  models.DefaultProfileSet().Weekdays,
		"scenario": scenarioProfile,
		"offset":   {{Hour: 2.25, Temp: 18.3}, {Hour: 7.5, Temp: 22.1}, {Hour: 21.75, Temp: 19.7}},
	}
	for name, p := range profiles {
		for _, cp := range p {
			got, err := HoursToTemp(cp.Hour, p)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if got != cp.Temp {
				t.Fatalf("%s: HoursToTemp(%v) = %v, want %v", name, cp.Hour, got, cp.Temp)
			}
		}
	}
}

func TestHoursToTemp_WrapsAroundMidnight(t *testing.T) {
	profiles := []models.DayProfile{
		scenarioProfile,
		models.DefaultProfileSet().Weekends,
		{{Hour: 3, Temp: 10}, {Hour: 15, Temp: 20}},
	}
	for i, p := range profiles {
		at0, err := HoursToTemp(0, p)
		if err != nil {
			t.Fatalf("profile %d: %v", i, err)
		}
		at24, err := HoursToTemp(24, p)
		if err != nil {
			t.Fatalf("profile %d: %v", i, err)
		}
		if at0 != at24 {
			t.Fatalf("profile %d: 0h=%v 24h=%v", i, at0, at24)
		}
	}

	// before the first point interpolates from the previous day's last point
	got, err := HoursToTemp(0, models.DayProfile{{Hour: 3, Temp: 10}, {Hour: 15, Temp: 20}})
	if err != nil {
		t.Fatal(err)
	}
	if got != 12.5 {
		t.Fatalf("got %v, want 12.5", got)
	}
}

func TestHoursToTemp_MonotoneBetweenPoints(t *testing.T) {
	p := models.DefaultProfileSet().Weekdays
	for i := 0; i < len(p)-1; i++ {
		prev, next := p[i], p[i+1]
		if prev.Temp == next.Temp {
			continue
		}
		lo, hi := prev.Temp, next.Temp
		if lo > hi {
			lo, hi = hi, lo
		}
		for _, frac := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
			h := prev.Hour + frac*(next.Hour-prev.Hour)
			got, err := HoursToTemp(h, p)
			if err != nil {
				t.Fatal(err)
			}
			if !(got > lo && got < hi) {
				t.Fatalf("HoursToTemp(%v) = %v, not strictly within (%v, %v)", h, got, lo, hi)
			}
		}
	}
}

func TestHoursToTemp_Degenerate(t *testing.T) {
	if _, err := HoursToTemp(5, nil); !errors.Is(err, ErrEmptyProfile) {
		t.Fatalf("empty profile: want ErrEmptyProfile, got %v", err)
	}

	single := models.DayProfile{{Hour: 7, Temp: 19.5}}
	for _, h := range []float64{0, 7, 12.5, 23.99} {
		got, err := HoursToTemp(h, single)
		if err != nil || got != 19.5 {
			t.Fatalf("single point at %v: got %v err=%v", h, got, err)
		}
	}
}

func TestHourFraction(t *testing.T) {
	cases := []struct {
		at   time.Time
		want float64
	}{
		{time.Date(2025, 1, 1, 0, 0, 59, 0, time.UTC), 0},
		{time.Date(2025, 1, 1, 6, 30, 0, 0, time.UTC), 6.5},
		{time.Date(2025, 1, 1, 23, 45, 0, 0, time.UTC), 23.75},
	}
	for _, tc := range cases {
		if got := HourFraction(tc.at); got != tc.want {
			t.Fatalf("HourFraction(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}
