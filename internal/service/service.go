package service

import (
	"context"
	"time"

	"thermostat/internal/logger"
	"thermostat/internal/models"
	"thermostat/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// SettingsAccessor is the slice of the cache the profile engine depends on.
type SettingsAccessor interface {
	Get(ctx context.Context, key string) (models.Value, bool, error)
	Set(ctx context.Context, key string, v models.Value) error
}

// Settings is the typed key/value cache plus its administration surface.
type Settings interface {
	SettingsAccessor
	Delete(ctx context.Context, key string) (bool, error)
	Records(ctx context.Context) ([]models.SettingRecord, error)
	Refresh(ctx context.Context) error
	ForceRefresh(ctx context.Context) error
	SetMaxAge(d time.Duration)
}

// Profiles owns the weekday/weekend schedules and the current target.
type Profiles interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Serialize(ctx context.Context) (models.ProfileSet, error)
	SetSlider(ctx context.Context, dt models.DayType, hourLabel string, temp float64) (SliderResult, error)
	Current(ctx context.Context) (float64, models.DayType, error)
	TempNow(ctx context.Context) (float64, error)
}

// Monitoring exposes read-only display state and accepts sensor reports.
type Monitoring interface {
	Snapshot(ctx context.Context) (models.TargetSnapshot, error)
	ActualTemp(ctx context.Context) (models.Value, bool, error)
	ReportActual(ctx context.Context, reading string) error
}

// EventLog exposes the append-only audit log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

// Watcher runs the background schedule evaluation.
// Stop via context cancellation in main() for graceful shutdown.
type Watcher interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Settings
	Profiles
	Monitoring
	EventLog
	Watcher
	Authorization
}

// Options carries the runtime knobs NewService needs from configuration.
type Options struct {
	MaxAge          time.Duration
	SeedPlaceholder bool
	Schedule        WeekSchedule
	SigningKey      string
	TokenTTL        time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}

	if opts.Schedule == (WeekSchedule{}) {
		opts.Schedule = DefaultWeekSchedule()
	}

	cacheOpts := []CacheOption{WithEventRepo(repos.EventRepo)}
	if opts.SeedPlaceholder {
		cacheOpts = append(cacheOpts, WithPlaceholderSeed())
	}
	settings := NewSettingsCache(repos.Settings, log.Named("settings"), opts.MaxAge, cacheOpts...)
	profiles := NewProfileService(settings, opts.Schedule, log.Named("profiles"))

	return &Service{
		Settings:      settings,
		Profiles:      profiles,
		Monitoring:    NewMonitoringService(settings, profiles),
		EventLog:      NewEventLogService(repos.EventRepo),
		Watcher:       NewTargetWatcher(profiles, repos.EventRepo, log.Named("watcher")),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}
