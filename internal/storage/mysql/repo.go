package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"nightspot/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveVenue(ctx context.Context, v domain.VenueRecord) error {
	tags, _ := json.Marshal(v.GenreTags)
	_, err := r.db.ExecContext(ctx, upsertVenueSQL,
		v.ID,
		v.Name,
		valStr(v.Address),
		valStr(v.Description),
		v.Category,
		valF64(v.Lat),
		valF64(v.Lng),
		valStr(v.Photo),
		valStr(v.ScheduleOpen),
		valStr(v.ScheduleClose),
		valInt(v.Capacity),
		string(tags),
		valF64(v.AvgRating),
		v.Approved,
	)
	return err
}

func (r *Repo) ListVenues(ctx context.Context) ([]domain.VenueRecord, error) {
	rows, err := r.db.QueryContext(ctx, listVenuesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VenueRecord
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) GetVenue(ctx context.Context, id string) (domain.VenueRecord, error) {
	row := r.db.QueryRowContext(ctx, getVenueSQL, id)
	v, err := scanVenue(row)
	if err == sql.ErrNoRows {
		return domain.VenueRecord{}, domain.ErrNotFound
	}
	return v, err
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanVenue(row rowScanner) (domain.VenueRecord, error) {
	var v domain.VenueRecord
	var address, description, photo, schedOpen, schedClose sql.NullString
	var lat, lng, rating sql.NullFloat64
	var capacity sql.NullInt64
	var tagsJSON []byte

	if err := row.Scan(
		&v.ID,
		&v.Name,
		&address,
		&description,
		&v.Category,
		&lat, &lng,
		&photo,
		&schedOpen, &schedClose,
		&capacity,
		&tagsJSON,
		&rating,
		&v.Approved,
	); err != nil {
		return domain.VenueRecord{}, err
	}

	if address.Valid {
		s := address.String
		v.Address = &s
	}
	if description.Valid {
		s := description.String
		v.Description = &s
	}
	if photo.Valid {
		s := photo.String
		v.Photo = &s
	}
	if schedOpen.Valid {
		s := schedOpen.String
		v.ScheduleOpen = &s
	}
	if schedClose.Valid {
		s := schedClose.String
		v.ScheduleClose = &s
	}
	if lat.Valid {
		f := lat.Float64
		v.Lat = &f
	}
	if lng.Valid {
		f := lng.Float64
		v.Lng = &f
	}
	if rating.Valid {
		f := rating.Float64
		v.AvgRating = &f
	}
	if capacity.Valid {
		n := int(capacity.Int64)
		v.Capacity = &n
	}
	_ = json.Unmarshal(tagsJSON, &v.GenreTags)
	return v, nil
}
