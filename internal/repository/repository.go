package repository

import (
	"context"
	"database/sql"
	"time"

	"thermostat/internal/models"
)

// MaxFetch bounds a full settings load.
const MaxFetch = 1000

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SettingStore is the durable key/value record store behind the settings cache.
// Each call is individually atomic; nothing spans keys.
type SettingStore interface {
	// Query returns every record with the given keyname, lowest id first.
	Query(ctx context.Context, keyname string) ([]models.SettingRecord, error)
	// Fetch returns up to limit records, lowest id first.
	Fetch(ctx context.Context, limit int) ([]models.SettingRecord, error)
	// Put inserts a record when ID is zero, otherwise overwrites it. Returns the ID.
	Put(ctx context.Context, rec models.SettingRecord) (int64, error)
	Delete(ctx context.Context, rec models.SettingRecord) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

type Repository struct {
	Settings  SettingStore
	EventRepo EventRepo
	Auth      Authorization
}

// NewRepository backs everything with the given SQLite handle. Callers may
// swap Settings for a shared store afterwards.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Settings:  NewSettingSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
