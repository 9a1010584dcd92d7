package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/milantony05/smart-kissan/internal/geo"
)

// Field represents a saved field (farm plot) row.
type Field struct {
	ID        string
	Name      string
	Position  geo.Coordinate
	Crop      *string
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Marker converts the field into a map marker.
func (f Field) Marker() geo.Marker {
	popup := ""
	if f.Crop != nil {
		popup = *f.Crop
	}
	if f.Note != nil {
		if popup != "" {
			popup += ", "
		}
		popup += *f.Note
	}
	return geo.Marker{Position: f.Position, Title: f.Name, Popup: popup}
}

// FieldRepo handles saved fields.
type FieldRepo struct {
	db *sql.DB
}

func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

func (r *FieldRepo) Upsert(ctx context.Context, f Field) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO fields(id, name, lat, lon, crop, note, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 lat=excluded.lat,
	 lon=excluded.lon,
	 crop=excluded.crop,
	 note=excluded.note,
	 updated_at=CURRENT_TIMESTAMP;
	`, f.ID, f.Name, f.Position.Lat, f.Position.Lon, f.Crop, f.Note)
	return err
}

func (r *FieldRepo) List(ctx context.Context) ([]Field, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, lat, lon, crop, note, created_at, updated_at FROM fields ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Field
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.ID, &f.Name, &f.Position.Lat, &f.Position.Lon, &f.Crop, &f.Note, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FieldRepo) Get(ctx context.Context, id string) (*Field, error) {
	var f Field
	err := r.db.QueryRowContext(ctx, `SELECT id, name, lat, lon, crop, note, created_at, updated_at FROM fields WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Position.Lat, &f.Position.Lon, &f.Crop, &f.Note, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FieldRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, id)
	return err
}
