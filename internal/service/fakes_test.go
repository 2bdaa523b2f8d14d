package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"thermostat/internal/models"
)

// memStore is an in-memory SettingStore that counts mutations.
type memStore struct {
	mu      sync.Mutex
	recs    map[int64]models.SettingRecord
	nextID  int64
	puts    int
	deletes int
	fetches int

	fetchErr error
	putErr   error
}

func newMemStore(recs ...models.SettingRecord) *memStore {
	s := &memStore{recs: map[int64]models.SettingRecord{}}
	for _, r := range recs {
		s.add(r)
	}
	return s
}

// add inserts directly, bypassing the counters, like an out-of-band writer.
func (s *memStore) add(r models.SettingRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.recs[r.ID] = r
	return r.ID
}

func (s *memStore) edit(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.recs {
		if r.Keyname == key {
			r.Value = value
			s.recs[id] = r
		}
	}
}

func (s *memStore) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts + s.deletes
}

func (s *memStore) sorted(match func(models.SettingRecord) bool) []models.SettingRecord {
	out := make([]models.SettingRecord, 0, len(s.recs))
	for _, r := range s.recs {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) Query(_ context.Context, keyname string) ([]models.SettingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(r models.SettingRecord) bool { return r.Keyname == keyname }), nil
}

func (s *memStore) Fetch(_ context.Context, limit int) ([]models.SettingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := s.sorted(func(models.SettingRecord) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) Put(_ context.Context, rec models.SettingRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return 0, s.putErr
	}
	s.puts++
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
	}
	s.recs[rec.ID] = rec
	return rec.ID, nil
}

func (s *memStore) Delete(_ context.Context, rec models.SettingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.recs, rec.ID)
	return nil
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
