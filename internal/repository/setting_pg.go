package repository

import (
	"context"
	"errors"
	"fmt"

	"thermostat/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingPG keeps settings in PostgreSQL so several controller instances can
// share one store. Each instance still caches independently.
type SettingPG struct {
	pool *pgxpool.Pool
}

var _ SettingStore = (*SettingPG)(nil)

const (
	pgSchemaSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id BIGSERIAL PRIMARY KEY,
    keyname TEXT NOT NULL,
    enttype TEXT,
    value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_settings_keyname ON settings (keyname);
`
	pgSelectByKeySQL = `SELECT id, keyname, COALESCE(enttype, ''), value FROM settings WHERE keyname = $1 ORDER BY id ASC`
	pgSelectAllSQL   = `SELECT id, keyname, COALESCE(enttype, ''), value FROM settings ORDER BY id ASC LIMIT $1`
	pgInsertSQL      = `INSERT INTO settings (keyname, enttype, value) VALUES ($1, $2, $3) RETURNING id`
	pgUpdateSQL      = `UPDATE settings SET keyname = $1, enttype = $2, value = $3 WHERE id = $4`
	pgDeleteSQL      = `DELETE FROM settings WHERE id = $1`
)

// NewSettingPG connects a pool and ensures the settings table exists.
func NewSettingPG(ctx context.Context, databaseURL string) (*SettingPG, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchemaSettings); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure settings schema: %w", err)
	}
	return &SettingPG{pool: pool}, nil
}

// Close releases the pool resources.
func (s *SettingPG) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *SettingPG) Query(ctx context.Context, keyname string) ([]models.SettingRecord, error) {
	rows, err := s.pool.Query(ctx, pgSelectByKeySQL, keyname)
	if err != nil {
		return nil, fmt.Errorf("query setting %q: %w", keyname, err)
	}
	return collectSettings(rows)
}

func (s *SettingPG) Fetch(ctx context.Context, limit int) ([]models.SettingRecord, error) {
	if limit <= 0 || limit > MaxFetch {
		limit = MaxFetch
	}
	rows, err := s.pool.Query(ctx, pgSelectAllSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	return collectSettings(rows)
}

func (s *SettingPG) Put(ctx context.Context, rec models.SettingRecord) (int64, error) {
	if rec.ID == 0 {
		var id int64
		err := s.pool.QueryRow(ctx, pgInsertSQL, rec.Keyname, string(rec.EntType), rec.Value).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert setting %q: %w", rec.Keyname, err)
		}
		return id, nil
	}

	tag, err := s.pool.Exec(ctx, pgUpdateSQL, rec.Keyname, string(rec.EntType), rec.Value, rec.ID)
	if err != nil {
		return 0, fmt.Errorf("update setting %q: %w", rec.Keyname, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("update setting %q: record %d: %w", rec.Keyname, rec.ID, pgx.ErrNoRows)
	}
	return rec.ID, nil
}

func (s *SettingPG) Delete(ctx context.Context, rec models.SettingRecord) error {
	if _, err := s.pool.Exec(ctx, pgDeleteSQL, rec.ID); err != nil {
		return fmt.Errorf("delete setting %q: %w", rec.Keyname, err)
	}
	return nil
}

func collectSettings(rows pgx.Rows) ([]models.SettingRecord, error) {
	defer rows.Close()

	out := make([]models.SettingRecord, 0, 16)
	for rows.Next() {
		var (
			rec     models.SettingRecord
			enttype string
		)
		if err := rows.Scan(&rec.ID, &rec.Keyname, &enttype, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		rec.EntType = models.EntType(enttype)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return out, nil
}
