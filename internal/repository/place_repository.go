// This file defines the Place model and repository methods for CRUD and
// paginated search. A Place is a user's geo-tagged favorite location enriched
// with the administrative geography resolved from its coordinates. Country
// and city are nullable because the resolver may have no data for a
// coordinate pair; locality is always populated, either with a resolved
// place name or with the fallback timezone identifier.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to match sentinel error values
	"strings"      // strings joins the dynamically built SQL fragments
	"time"         // time holds the DB-assigned timestamps
)

// Place represents a favorite place persisted in the database. The ID field
// is the primary key and is auto-incremented by the DB, so identifiers are
// assigned exactly once and never reused after deletion. CreatedAt is set
// once on insert; UpdatedAt is refreshed on every successful mutation.
type Place struct {
	ID          uint64    `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	Country     *string   `json:"country"`
	City        *string   `json:"city"`
	Locality    string    `json:"locality"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchQuery defines filters & pagination for listing places. Nil filter
// fields are ignored; set fields are combined as an exact-match conjunction.
// Page is 1-indexed.
type SearchQuery struct {
	Latitude    *float64
	Longitude   *float64
	Description *string
	Country     *string
	City        *string
	Locality    *string
	Page        int
	PageSize    int
}

// PlaceUpdate carries the fields of a partial update. Nil fields are left
// untouched. When SetGeography is true the three geography columns are
// overwritten together, country and city possibly with NULL; the service
// layer sets it whenever a patch carried coordinates and geography was
// re-resolved.
type PlaceUpdate struct {
	Latitude     *float64
	Longitude    *float64
	Description  *string
	SetGeography bool
	Country      *string
	City         *string
	Locality     *string
}

// PlaceRepo encapsulates all database queries related to places.  It
// depends on a sql.DB connection which should be configured elsewhere.
type PlaceRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewPlaceRepo constructs a PlaceRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewPlaceRepo(db *sql.DB) *PlaceRepo {
	return &PlaceRepo{db: db}
}

const placeColumns = "id, latitude, longitude, description, country, city, locality, created_at, updated_at"

// Create inserts a new place into the database.  On success the place's
// ID field will be populated with the auto-generated value.  After the
// insert, a SELECT is executed to populate the CreatedAt and UpdatedAt
// fields so that callers receive a fully populated record.
func (r *PlaceRepo) Create(ctx context.Context, p *Place) error {
	const qInsert = "INSERT INTO places (latitude, longitude, description, country, city, locality) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, p.Latitude, p.Longitude, p.Description, p.Country, p.City, p.Locality)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	// Follow-up SELECT to populate the DB-assigned timestamp fields.
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches a place by its ID.  It returns ErrPlaceNotFound if no
// row is found.
func (r *PlaceRepo) GetByID(ctx context.Context, id uint64) (*Place, error) {
	const q = "SELECT " + placeColumns + " FROM places WHERE id = ?"
	var p Place
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Latitude, &p.Longitude, &p.Description,
		&p.Country, &p.City, &p.Locality, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Search returns one page of places matching the query filters together with
// the total number of matches disregarding pagination.  Rows are ordered by
// id, which is insertion (creation) order.
func (r *PlaceRepo) Search(ctx context.Context, q SearchQuery) ([]*Place, int64, error) {
	where := []string{}
	args := []any{}

	if q.Latitude != nil {
		where = append(where, "latitude = ?")
		args = append(args, *q.Latitude)
	}
	if q.Longitude != nil {
		where = append(where, "longitude = ?")
		args = append(args, *q.Longitude)
	}
	if q.Description != nil {
		where = append(where, "description = ?")
		args = append(args, *q.Description)
	}
	if q.Country != nil {
		where = append(where, "country = ?")
		args = append(args, *q.Country)
	}
	if q.City != nil {
		where = append(where, "city = ?")
		args = append(args, *q.City)
	}
	if q.Locality != nil {
		where = append(where, "locality = ?")
		args = append(args, *q.Locality)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM places WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := "SELECT " + placeColumns + " FROM places WHERE " + cond + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Place
	for rows.Next() {
		p := new(Place)
		if err := rows.Scan(
			&p.ID, &p.Latitude, &p.Longitude, &p.Description,
			&p.Country, &p.City, &p.Locality, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies only the supplied fields to a place and bumps updated_at.
// The updated row is re-read afterwards so callers receive the record as the
// DB stored it; a missing id surfaces as ErrPlaceNotFound from that read.
func (r *PlaceRepo) Update(ctx context.Context, id uint64, u PlaceUpdate) (*Place, error) {
	sets := []string{}
	args := []any{}

	if u.Latitude != nil {
		sets = append(sets, "latitude = ?")
		args = append(args, *u.Latitude)
	}
	if u.Longitude != nil {
		sets = append(sets, "longitude = ?")
		args = append(args, *u.Longitude)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.SetGeography {
		sets = append(sets, "country = ?", "city = ?", "locality = ?")
		args = append(args, u.Country, u.City, u.Locality)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP(6)")

	q := "UPDATE places SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, append(args, id)...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a place by id.  ErrPlaceNotFound is returned when no row
// was deleted, including repeated deletes of the same id.
func (r *PlaceRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM places WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlaceNotFound
	}
	return nil
}
