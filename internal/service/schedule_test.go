package service

import (
	"testing"
	"time"

	"thermostat/internal/models"
)

func TestDefaultWeekSchedule(t *testing.T) {
	w := DefaultWeekSchedule()
	// 2025-03-03 is a Monday
	for i := 0; i < 7; i++ {
		day := time.Date(2025, time.March, 3+i, 12, 0, 0, 0, time.Local)
		want := models.Weekdays
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			want = models.Weekends
		}
		if got := w.DayType(day); got != want {
			t.Fatalf("%s: got %s, want %s", day.Weekday(), got, want)
		}
	}
}

func TestNewWeekSchedule(t *testing.T) {
	w, err := NewWeekSchedule(time.UTC, []string{"Fri", " saturday "})
	if err != nil {
		t.Fatalf("NewWeekSchedule: %v", err)
	}
	cases := map[time.Weekday]models.DayType{
		time.Thursday: models.Weekdays,
		time.Friday:   models.Weekends,
		time.Saturday: models.Weekends,
		time.Sunday:   models.Weekdays,
	}
	for i := 0; i < 7; i++ {
		day := time.Date(2025, time.March, 3+i, 12, 0, 0, 0, time.UTC)
		want, ok := cases[day.Weekday()]
		if !ok {
			continue
		}
		if got := w.DayType(day); got != want {
			t.Fatalf("%s: got %s, want %s", day.Weekday(), got, want)
		}
	}

	for _, bad := range []string{"sa", "funday", ""} {
		if _, err := NewWeekSchedule(time.UTC, []string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestWeekSchedule_UsesConfiguredZone(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*3600)
	w, err := NewWeekSchedule(plus3, []string{"saturday", "sunday"})
	if err != nil {
		t.Fatal(err)
	}
	// Sunday 22:00 UTC is already Monday 01:00 at UTC+3.
	at := time.Date(2025, time.March, 9, 22, 0, 0, 0, time.UTC)
	if got := w.DayType(at); got != models.Weekdays {
		t.Fatalf("got %s", got)
	}
	if got := w.In(at).Hour(); got != 1 {
		t.Fatalf("In: hour %d", got)
	}
}
