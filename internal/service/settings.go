package service

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"thermostat/internal/logger"
	"thermostat/internal/models"
	"thermostat/internal/repository"
)

// DefaultMaxAge is the freshness window used when none is configured.
const DefaultMaxAge = 1000 * time.Second

const (
	placeholderKey   = "DummyKey"
	placeholderValue = "DummyValue"
)

// SettingsCache is a typed, freshness-bounded cache over a SettingStore.
//
// Reads are served from an immutable snapshot that is swapped whole. Every
// mutation (Set, Delete, reloads) runs under writeMu, so a write and the
// reload that follows it can never interleave with another writer.
type SettingsCache struct {
	store  repository.SettingStore
	events repository.EventRepo
	log    *logger.Logger
	now    func() time.Time
	seed   bool

	writeMu sync.Mutex

	mu         sync.RWMutex
	entries    map[string]models.Value
	lastLoaded time.Time
	maxAge     time.Duration
}

var _ Settings = (*SettingsCache)(nil)

// CacheOption customizes a SettingsCache.
type CacheOption func(*SettingsCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(s *SettingsCache) { s.now = now }
}

// WithEventRepo records SET/DELETE audit events.
func WithEventRepo(r repository.EventRepo) CacheOption {
	return func(s *SettingsCache) { s.events = r }
}

// WithPlaceholderSeed writes a DummyKey record when the first load finds an
// empty store, so the table is never empty when inspected by hand.
func WithPlaceholderSeed() CacheOption {
	return func(s *SettingsCache) { s.seed = true }
}

func NewSettingsCache(store repository.SettingStore, log *logger.Logger, maxAge time.Duration, opts ...CacheOption) *SettingsCache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &SettingsCache{
		store:   store,
		log:     log,
		now:     time.Now,
		entries: map[string]models.Value{},
		maxAge:  maxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached value for key after a lazy refresh. A miss forces
// one full reload before giving up, so keys created by another instance
// show up immediately.
func (s *SettingsCache) Get(ctx context.Context, key string) (models.Value, bool, error) {
	if err := s.Refresh(ctx); err != nil {
		return models.Value{}, false, err
	}
	if v, ok := s.lookup(key); ok {
		return v, true, nil
	}
	if err := s.ForceRefresh(ctx); err != nil {
		return models.Value{}, false, err
	}
	v, ok := s.lookup(key)
	return v, ok, nil
}

// Set writes v through to the store and then reloads everything.
//
// A new key takes v's own type. An existing key keeps its stored type and v
// is coerced to it; failure returns a *TypeCoercionError and nothing is written.
func (s *SettingsCache) Set(ctx context.Context, key string, v models.Value) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	recs, err := s.store.Query(ctx, key)
	if err != nil {
		return fmt.Errorf("look up setting %q: %w", key, err)
	}

	var rec models.SettingRecord
	switch len(recs) {
	case 0:
		rec = models.SettingRecord{Keyname: key, EntType: v.Type.Normalize()}
	default:
		if len(recs) > 1 {
			s.log.Warnw("setting_duplicate_records", "key", key, "count", len(recs), "using_id", recs[0].ID)
		}
		rec = recs[0]
		rec.EntType = rec.EntType.Normalize()
		cv, err := coerce(v, rec.EntType)
		if err != nil {
			return &TypeCoercionError{Key: key, From: v.Type.Normalize(), To: rec.EntType, Err: err}
		}
		v = cv
	}
	v.Type = rec.EntType

	text, err := models.Encode(v)
	if err != nil {
		return &TypeCoercionError{Key: key, From: v.Type, To: rec.EntType, Err: err}
	}
	rec.Value = text

	if _, err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("persist setting %q: %w", key, err)
	}

	s.replaceEntry(key, v, true)
	s.audit(ctx, models.EventSet, key, "setting updated", map[string]any{"enttype": rec.EntType, "value": text})

	if err := s.reloadLocked(ctx); err != nil {
		// the write itself is durable; readers keep the updated snapshot
		s.log.Warnw("settings_reload_after_write_failed", "key", key, "err", err)
	}
	return nil
}

// Delete removes every record stored under key. It reports whether any existed.
func (s *SettingsCache) Delete(ctx context.Context, key string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	recs, err := s.store.Query(ctx, key)
	if err != nil {
		return false, fmt.Errorf("look up setting %q: %w", key, err)
	}
	if len(recs) == 0 {
		return false, nil
	}
	for _, rec := range recs {
		if err := s.store.Delete(ctx, rec); err != nil {
			return false, err
		}
	}

	s.replaceEntry(key, models.Value{}, false)
	s.audit(ctx, models.EventDelete, key, "setting deleted", map[string]any{"records": len(recs)})

	if err := s.reloadLocked(ctx); err != nil {
		s.log.Warnw("settings_reload_after_delete_failed", "key", key, "err", err)
	}
	return true, nil
}

// Records lists raw stored records for administration. Records without a
// type tag are repaired to "string" and written back.
func (s *SettingsCache) Records(ctx context.Context) ([]models.SettingRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	recs, err := s.store.Fetch(ctx, repository.MaxFetch)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].EntType != "" {
			continue
		}
		recs[i].EntType = models.EntString
		if _, err := s.store.Put(ctx, recs[i]); err != nil {
			s.log.Warnw("setting_type_repair_failed", "key", recs[i].Keyname, "id", recs[i].ID, "err", err)
		}
	}
	return recs, nil
}

// Refresh reloads only when the snapshot is older than maxAge.
func (s *SettingsCache) Refresh(ctx context.Context) error {
	if s.fresh() {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.fresh() {
		// another caller reloaded while we waited
		return nil
	}
	return s.reloadLocked(ctx)
}

// ForceRefresh reloads the whole snapshot regardless of age.
func (s *SettingsCache) ForceRefresh(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.reloadLocked(ctx)
}

// SetMaxAge changes the freshness window. It does not trigger a reload.
func (s *SettingsCache) SetMaxAge(d time.Duration) {
	s.mu.Lock()
	s.maxAge = d
	s.mu.Unlock()
}

// LastLoaded reports when the snapshot was last replaced; zero before the first load.
func (s *SettingsCache) LastLoaded() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoaded
}

func (s *SettingsCache) fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastLoaded.IsZero() {
		return false
	}
	return !s.now().After(s.lastLoaded.Add(s.maxAge))
}

func (s *SettingsCache) lookup(key string) (models.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// replaceEntry swaps in a copy of the snapshot with one key changed.
func (s *SettingsCache) replaceEntry(key string, v models.Value, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := maps.Clone(s.entries)
	if present {
		next[key] = v
	} else {
		delete(next, key)
	}
	s.entries = next
}

// reloadLocked must be called with writeMu held.
func (s *SettingsCache) reloadLocked(ctx context.Context) error {
	recs, err := s.store.Fetch(ctx, repository.MaxFetch)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if len(recs) == 0 && s.seed && s.LastLoaded().IsZero() {
		if rec, ok := s.seedPlaceholder(ctx); ok {
			recs = append(recs, rec)
		}
	}

	next := make(map[string]models.Value, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if _, dup := seen[rec.Keyname]; dup {
			s.log.Warnw("setting_duplicate_records", "key", rec.Keyname, "ignored_id", rec.ID)
			continue
		}
		seen[rec.Keyname] = struct{}{}

		v, err := models.Decode(rec)
		if err != nil {
			s.log.Warnw("setting_decode_failed", "key", rec.Keyname, "id", rec.ID, "enttype", rec.EntType, "err", err)
			continue
		}
		next[rec.Keyname] = v
	}

	now := s.now()
	s.mu.Lock()
	s.entries = next
	s.lastLoaded = now
	s.mu.Unlock()

	s.log.Debugw("settings_reloaded", "records", len(recs), "entries", len(next))
	return nil
}

func (s *SettingsCache) seedPlaceholder(ctx context.Context) (models.SettingRecord, bool) {
	s.log.Warnw("settings_store_empty", "action", "creating placeholder record, delete once real data exists", "key", placeholderKey)
	rec := models.SettingRecord{Keyname: placeholderKey, EntType: models.EntString, Value: placeholderValue}
	id, err := s.store.Put(ctx, rec)
	if err != nil {
		s.log.Warnw("settings_placeholder_failed", "err", err)
		return models.SettingRecord{}, false
	}
	rec.ID = id
	return rec, true
}

func (s *SettingsCache) audit(ctx context.Context, typ, key, msg string, meta map[string]any) {
	if s.events == nil {
		return
	}
	ev := models.Event{
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Keyname:     key,
		Description: msg,
		Metadata:    meta,
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.log.Warnw("setting_event_append_failed", "key", key, "type", typ, "err", err)
	}
}
