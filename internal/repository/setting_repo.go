package repository

import (
	"context"
	"database/sql"
	"fmt"

	"thermostat/internal/models"
)

type SettingSQLite struct {
	db *sql.DB
}

func NewSettingSQLite(db *sql.DB) *SettingSQLite {
	return &SettingSQLite{db: db}
}

var _ SettingStore = (*SettingSQLite)(nil)

const (
	selectSettingsByKeySQL = `SELECT id, keyname, enttype, value FROM settings WHERE keyname = ? ORDER BY id ASC`
	selectSettingsSQL      = `SELECT id, keyname, enttype, value FROM settings ORDER BY id ASC LIMIT ?`
	insertSettingSQL       = `INSERT INTO settings (keyname, enttype, value) VALUES (?, ?, ?)`
	updateSettingSQL       = `UPDATE settings SET keyname = ?, enttype = ?, value = ? WHERE id = ?`
	deleteSettingSQL       = `DELETE FROM settings WHERE id = ?`
)

func (r *SettingSQLite) Query(ctx context.Context, keyname string) ([]models.SettingRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectSettingsByKeySQL, keyname)
	if err != nil {
		return nil, fmt.Errorf("query setting %q: %w", keyname, err)
	}
	return scanSettings(rows)
}

func (r *SettingSQLite) Fetch(ctx context.Context, limit int) ([]models.SettingRecord, error) {
	if limit <= 0 || limit > MaxFetch {
		limit = MaxFetch
	}
	rows, err := r.db.QueryContext(ctx, selectSettingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	return scanSettings(rows)
}

func (r *SettingSQLite) Put(ctx context.Context, rec models.SettingRecord) (int64, error) {
	if rec.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertSettingSQL, rec.Keyname, string(rec.EntType), rec.Value)
		if err != nil {
			return 0, fmt.Errorf("insert setting %q: %w", rec.Keyname, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("get last insert id for setting %q: %w", rec.Keyname, err)
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, updateSettingSQL, rec.Keyname, string(rec.EntType), rec.Value, rec.ID)
	if err != nil {
		return 0, fmt.Errorf("update setting %q: %w", rec.Keyname, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("update setting %q: record %d: %w", rec.Keyname, rec.ID, sql.ErrNoRows)
	}
	return rec.ID, nil
}

func (r *SettingSQLite) Delete(ctx context.Context, rec models.SettingRecord) error {
	if _, err := r.db.ExecContext(ctx, deleteSettingSQL, rec.ID); err != nil {
		return fmt.Errorf("delete setting %q: %w", rec.Keyname, err)
	}
	return nil
}

func scanSettings(rows *sql.Rows) ([]models.SettingRecord, error) {
	defer rows.Close()

	out := make([]models.SettingRecord, 0, 16)
	for rows.Next() {
		var (
			rec     models.SettingRecord
			enttype sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Keyname, &enttype, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		rec.EntType = models.EntType(enttype.String)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
