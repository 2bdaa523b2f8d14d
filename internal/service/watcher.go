package service

import (
	"context"
	"math"
	"time"

	"thermostat/internal/logger"
	"thermostat/internal/models"
	"thermostat/internal/repository"
)

// DefaultWatchInterval is used when Run is given a non-positive tick.
const DefaultWatchInterval = 30 * time.Second

// TargetWatcher periodically evaluates the schedule and logs a
// TARGET_CHANGE event whenever the target temperature, rounded to 0.1 °C, moves. The lazy
// refresh it triggers also keeps the settings snapshot warm between requests.
type TargetWatcher struct {
	profiles  Profiles
	eventRepo repository.EventRepo
	log       *logger.Logger

	last    float64
	hasLast bool
}

func NewTargetWatcher(profiles Profiles, eventRepo repository.EventRepo, log *logger.Logger) *TargetWatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &TargetWatcher{profiles: profiles, eventRepo: eventRepo, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (w *TargetWatcher) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		w.log.Warnw("watch_interval_invalid", "interval", tick, "using", DefaultWatchInterval)
		tick = DefaultWatchInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	w.check(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			w.check(ctx, now)
		}
	}
}

// check returns true when a change was recorded.
func (w *TargetWatcher) check(ctx context.Context, now time.Time) bool {
	temp, dt, err := w.profiles.Current(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Warnw("target_evaluate_failed", "err", err)
		}
		return false
	}
	temp = roundTenth(temp)
	if w.hasLast && temp == w.last {
		return false
	}

	meta := map[string]any{"target_temp_c": temp, "day_type": dt}
	if w.hasLast {
		meta["previous_temp_c"] = w.last
	}
	w.last, w.hasLast = temp, true

	if w.eventRepo == nil {
		return true
	}
	err = w.eventRepo.Append(ctx, models.Event{
		OccurredAt:  now.UTC(),
		Type:        models.EventTargetChange,
		Description: "scheduled target changed",
		Metadata:    meta,
	})
	if err != nil {
		w.log.Warnw("target_event_append_failed", "err", err)
	}
	return true
}

func roundTenth(f float64) float64 {
	return math.Round(f*10) / 10
}
