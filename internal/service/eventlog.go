package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"thermostat/internal/models"
	"thermostat/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// LogFilter narrows the audit log by time range and event type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", SET, DELETE, TARGET_CHANGE
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Type: strings.TrimSpace(strings.ToUpper(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.Event, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, nf.From, nf.To, nf.Type)
}
