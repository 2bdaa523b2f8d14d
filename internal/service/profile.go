package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"thermostat/internal/logger"
	"thermostat/internal/models"
)

// SliderResult is the outcome of a single control point edit.
type SliderResult int

const (
	SliderUpdated SliderResult = iota + 1
	SliderUnchanged
	SliderNotFound
)

func (r SliderResult) String() string {
	switch r {
	case SliderUpdated:
		return "updated"
	case SliderUnchanged:
		return "unchanged"
	case SliderNotFound:
		return "not_found"
	}
	return "unknown"
}

var dayTypes = [...]models.DayType{models.Weekdays, models.Weekends}

// ProfileService owns the in-memory weekday/weekend schedules and keeps them
// in step with the settings cache.
type ProfileService struct {
	settings SettingsAccessor
	schedule WeekSchedule
	log      *logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	profiles models.ProfileSet
}

var _ Profiles = (*ProfileService)(nil)

func NewProfileService(settings SettingsAccessor, schedule WeekSchedule, log *logger.Logger) *ProfileService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileService{
		settings: settings,
		schedule: schedule,
		log:      log,
		now:      time.Now,
		profiles: models.DefaultProfileSet(),
	}
}

// Load adopts the persisted profiles. A profile missing from the store is
// seeded with the built-in default.
func (p *ProfileService) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

// Save writes both in-memory profiles through the settings cache.
func (p *ProfileService) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveLocked(ctx, p.profiles)
}

// Serialize returns a copy of both profiles after a lazy load.
func (p *ProfileService) Serialize(ctx context.Context) (models.ProfileSet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.loadLocked(ctx); err != nil {
		return models.ProfileSet{}, err
	}
	return p.profiles.Clone(), nil
}

// SetSlider changes the temperature of the control point whose hour label is
// exactly hourLabel. It never inserts points. An equal temperature skips the
// write entirely.
func (p *ProfileService) SetSlider(ctx context.Context, dt models.DayType, hourLabel string, temp float64) (SliderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(ctx); err != nil {
		return 0, err
	}
	profile, ok := p.profiles.Profile(dt)
	if !ok {
		return 0, ErrUnknownDayType
	}

	idx := -1
	for i, cp := range profile {
		if cp.Label() == hourLabel {
			idx = i
			break
		}
	}
	if idx < 0 {
		return SliderNotFound, nil
	}
	if profile[idx].Temp == temp {
		return SliderUnchanged, nil
	}

	next := p.profiles.Clone()
	edited := next.Weekdays
	if dt == models.Weekends {
		edited = next.Weekends
	}
	edited[idx].Temp = temp

	if err := p.saveLocked(ctx, next); err != nil {
		return 0, err
	}
	p.profiles = next
	p.log.Infow("profile_point_updated", "day_type", dt, "hour", hourLabel, "temp", temp)
	return SliderUpdated, nil
}

// SelectProfile returns a copy of the profile that applies at now.
func (p *ProfileService) SelectProfile(now time.Time) models.DayProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	profile, _ := p.profiles.Profile(p.schedule.DayType(now))
	return profile.Clone()
}

// Current returns the target temperature right now and the day type used.
func (p *ProfileService) Current(ctx context.Context) (float64, models.DayType, error) {
	now := p.schedule.In(p.now())

	p.mu.Lock()
	if err := p.loadLocked(ctx); err != nil {
		p.mu.Unlock()
		return 0, "", err
	}
	dt := p.schedule.DayType(now)
	profile, _ := p.profiles.Profile(dt)
	profile = profile.Clone()
	p.mu.Unlock()

	temp, err := HoursToTemp(HourFraction(now), profile)
	if err != nil {
		return 0, dt, fmt.Errorf("%s profile: %w", dt, err)
	}
	return temp, dt, nil
}

// TempNow returns the interpolated target temperature for the current time.
func (p *ProfileService) TempNow(ctx context.Context) (float64, error) {
	temp, _, err := p.Current(ctx)
	return temp, err
}

func (p *ProfileService) loadLocked(ctx context.Context) error {
	defaults := models.DefaultProfileSet()
	next := models.ProfileSet{}

	for _, dt := range dayTypes {
		fallback, _ := defaults.Profile(dt)

		v, found, err := p.settings.Get(ctx, string(dt))
		if err != nil {
			return fmt.Errorf("load %s profile: %w", dt, err)
		}

		var profile models.DayProfile
		switch {
		case !found:
			if err := p.settings.Set(ctx, string(dt), models.JSONValue(fallback)); err != nil {
				return fmt.Errorf("seed %s profile: %w", dt, err)
			}
			p.log.Infow("profile_seeded", "day_type", dt, "points", len(fallback))
			profile = fallback.Clone()
		default:
			profile, err = decodeProfile(v)
			if err != nil {
				p.log.Warnw("profile_decode_failed", "day_type", dt, "err", err, "action", "using built-in default")
				profile = fallback.Clone()
			}
		}

		if dt == models.Weekends {
			next.Weekends = profile
		} else {
			next.Weekdays = profile
		}
	}

	p.profiles = next
	return nil
}

func (p *ProfileService) saveLocked(ctx context.Context, set models.ProfileSet) error {
	for _, dt := range dayTypes {
		profile, _ := set.Profile(dt)
		if err := p.settings.Set(ctx, string(dt), models.JSONValue(profile.Clone())); err != nil {
			return fmt.Errorf("save %s profile: %w", dt, err)
		}
	}
	return nil
}

var errBadHour = errors.New("control point hour must be within [0, 24)")

// decodeProfile accepts the JSON tree produced by a reload as well as a
// DayProfile stored by a preceding Set.
func decodeProfile(v models.Value) (models.DayProfile, error) {
	var raw []byte
	switch v.Type {
	case models.EntJSON:
		b, err := json.Marshal(v.JSON)
		if err != nil {
			return nil, err
		}
		raw = b
	case models.EntString:
		raw = []byte(v.Str)
	default:
		return nil, fmt.Errorf("profile stored as %s, want json", v.Type)
	}

	var profile models.DayProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}
	for _, cp := range profile {
		if cp.Hour < 0 || cp.Hour >= hoursPerDay {
			return nil, fmt.Errorf("%w: got %v", errBadHour, cp.Hour)
		}
	}
	sort.SliceStable(profile, func(i, j int) bool { return profile[i].Hour < profile[j].Hour })
	return profile, nil
}
