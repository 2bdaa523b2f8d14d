package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"thermostat/internal/models"
)

// ActualTempKey is the setting that holds the last sensor reading.
const ActualTempKey = "actual_temp"

// MonitoringService answers read-only display queries and stores sensor reports.
type MonitoringService struct {
	settings SettingsAccessor
	profiles Profiles
	now      func() time.Time
}

func NewMonitoringService(settings SettingsAccessor, profiles Profiles) *MonitoringService {
	return &MonitoringService{settings: settings, profiles: profiles, now: time.Now}
}

// Snapshot combines the current target with the last reported reading.
func (s *MonitoringService) Snapshot(ctx context.Context) (models.TargetSnapshot, error) {
	temp, dt, err := s.profiles.Current(ctx)
	if err != nil {
		return models.TargetSnapshot{}, err
	}
	snap := models.TargetSnapshot{TargetTempC: temp, DayType: dt, At: s.now().UTC()}

	actual, found, err := s.settings.Get(ctx, ActualTempKey)
	if err != nil {
		return models.TargetSnapshot{}, err
	}
	if found {
		snap.ActualTemp = actual.Interface()
	}
	return snap, nil
}

// ActualTemp returns the last stored sensor reading.
func (s *MonitoringService) ActualTemp(ctx context.Context) (models.Value, bool, error) {
	return s.settings.Get(ctx, ActualTempKey)
}

// ReportActual stores a sensor reading. Numeric text is stored as a float,
// anything else as text (NaN and infinities included); an existing record's
// type still wins.
func (s *MonitoringService) ReportActual(ctx context.Context, reading string) error {
	reading = strings.TrimSpace(reading)
	v := models.StringValue(reading)
	if f, err := strconv.ParseFloat(reading, 64); err == nil && models.IsFinite(f) {
		v = models.FloatValue(f)
	}
	return s.settings.Set(ctx, ActualTempKey, v)
}
