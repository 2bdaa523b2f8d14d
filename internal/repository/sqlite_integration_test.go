package repository

import (
	"path/filepath"
	"testing"
	"time"

	"thermostat/internal/models"
	"thermostat/internal/repository/db"
)

func newSQLiteRepos(t *testing.T) *Repository {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "thermostat.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn)
}

func TestSQLite_SettingsLifecycle(t *testing.T) {
	c := ctx(t)
	repos := newSQLiteRepos(t)
	store := repos.Settings

	first, err := store.Put(c, models.SettingRecord{Keyname: "mode", EntType: models.EntString, Value: "eco"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	// duplicates are allowed by the schema
	if _, err := store.Put(c, models.SettingRecord{Keyname: "mode", EntType: models.EntString, Value: "away"}); err != nil {
		t.Fatalf("Put duplicate: %v", err)
	}
	if _, err := store.Put(c, models.SettingRecord{Keyname: "limit", EntType: models.EntInt, Value: "3"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	recs, err := store.Query(c, "mode")
	if err != nil || len(recs) != 2 || recs[0].ID != first || recs[0].Value != "eco" {
		t.Fatalf("Query: %+v err=%v", recs, err)
	}

	recs[0].Value = "comfort"
	if _, err := store.Put(c, recs[0]); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err := store.Fetch(c, MaxFetch)
	if err != nil || len(all) != 3 || all[0].Value != "comfort" {
		t.Fatalf("Fetch: %+v err=%v", all, err)
	}
	if limited, _ := store.Fetch(c, 1); len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}

	if err := store.Delete(c, recs[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if left, _ := store.Query(c, "mode"); len(left) != 1 || left[0].Value != "away" {
		t.Fatalf("after delete: %+v", left)
	}

	if _, err := store.Put(c, models.SettingRecord{ID: 999, Keyname: "ghost", Value: "x"}); err == nil {
		t.Fatalf("updating a missing record should fail")
	}
}

func TestSQLite_EventsRoundTrip(t *testing.T) {
	c := ctx(t)
	events := newSQLiteRepos(t).EventRepo

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.EventSet, models.EventDelete, models.EventTargetChange} {
		err := events.Append(c, models.Event{
			OccurredAt:  base.Add(time.Duration(i) * time.Minute),
			Type:        typ,
			Keyname:     "weekdays",
			Description: "test",
			Metadata:    map[string]any{"i": i},
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := events.List(c, base.Add(time.Minute), time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Type != models.EventDelete || !got[0].OccurredAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected events %+v", got)
	}

	got, err = events.List(c, time.Time{}, time.Time{}, "target_change")
	if err != nil || len(got) != 1 || got[0].EventID == "" {
		t.Fatalf("type filter: %+v err=%v", got, err)
	}
}

func TestSQLite_Users(t *testing.T) {
	c := ctx(t)
	users := newSQLiteRepos(t).Auth

	id, err := users.Create(c, "operator", "hash")
	if err != nil || id == 0 {
		t.Fatalf("Create: id=%d err=%v", id, err)
	}
	if _, err := users.Create(c, "operator", "other"); err == nil {
		t.Fatalf("duplicate username should fail")
	}
	u, err := users.GetByUsername(c, "operator")
	if err != nil || u == nil || u.ID != id || u.PasswordHash != "hash" {
		t.Fatalf("GetByUsername: %+v err=%v", u, err)
	}
	if u, err := users.GetByUsername(c, "nobody"); err != nil || u != nil {
		t.Fatalf("missing user: %+v err=%v", u, err)
	}
}
