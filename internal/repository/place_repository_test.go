package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const selectPlaceSQL = "SELECT id, latitude, longitude, description, country, city, locality, created_at, updated_at FROM places WHERE id = ?"

var placeCols = []string{"id", "latitude", "longitude", "description", "country", "city", "locality", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestCreatePlace(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO places (latitude, longitude, description, country, city, locality) VALUES (?, ?, ?, ?, ?, ?)",
	)).
		WithArgs(12.3456, 23.4567, "test", "AA", "City", "Location").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(7, 12.3456, 23.4567, "test", "AA", "City", "Location", now, now))

	country, city := "AA", "City"
	p := &Place{
		Latitude:    12.3456,
		Longitude:   23.4567,
		Description: "test",
		Country:     &country,
		City:        &city,
		Locality:    "Location",
	}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 7 {
		t.Fatalf("expected id 7, got %d", p.ID)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlace_NullGeography(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO places (latitude, longitude, description, country, city, locality) VALUES (?, ?, ?, ?, ?, ?)",
	)).
		WithArgs(0.0, 0.0, "string", nil, nil, "Etc/GMT").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(1, 0.0, 0.0, "string", nil, nil, "Etc/GMT", now, now))

	p := &Place{Latitude: 0, Longitude: 0, Description: "string", Locality: "Etc/GMT"}
	if err := r.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Country != nil || p.City != nil {
		t.Fatalf("expected nil country/city, got %+v", p)
	}
	if p.Locality != "Etc/GMT" {
		t.Fatalf("expected fallback locality, got %q", p.Locality)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestSearch_NoFilters(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM places WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, latitude, longitude, description, country, city, locality, created_at, updated_at FROM places WHERE 1=1 ORDER BY id LIMIT ? OFFSET ?",
	)).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(1, 1.0, 2.0, "first", nil, nil, "Etc/GMT", now, now).
			AddRow(2, 3.0, 4.0, "second", "AA", "City", "Location", now, now))

	items, total, err := r.Search(context.Background(), SearchQuery{Page: 1, PageSize: 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("expected insertion order, got %d then %d", items[0].ID, items[1].ID)
	}
}

func TestSearch_FilterConjunction(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM places WHERE country = ? AND city = ?")).
		WithArgs("AA", "City").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, latitude, longitude, description, country, city, locality, created_at, updated_at FROM places WHERE country = ? AND city = ? ORDER BY id LIMIT ? OFFSET ?",
	)).
		WithArgs("AA", "City", 10, 10).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(11, 3.0, 4.0, "match", "AA", "City", "Location", now, now))

	country, city := "AA", "City"
	items, total, err := r.Search(context.Background(), SearchQuery{
		Country:  &country,
		City:     &city,
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1/1, got total=%d items=%d", total, len(items))
	}
}

func TestUpdate_DescriptionOnly(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE places SET description = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?",
	)).
		WithArgs("renamed", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(7, 12.3456, 23.4567, "renamed", "AA", "City", "Location", now, now))

	desc := "renamed"
	p, err := r.Update(context.Background(), 7, PlaceUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Description != "renamed" {
		t.Fatalf("expected updated description, got %q", p.Description)
	}
}

func TestUpdate_CoordinatesWithGeography(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE places SET latitude = ?, longitude = ?, country = ?, city = ?, locality = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?",
	)).
		WithArgs(15.3433, 15.3433, nil, nil, "Etc/GMT-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(placeCols).
			AddRow(7, 15.3433, 15.3433, "test", nil, nil, "Etc/GMT-1", now, now))

	lat, lon := 15.3433, 15.3433
	locality := "Etc/GMT-1"
	p, err := r.Update(context.Background(), 7, PlaceUpdate{
		Latitude:     &lat,
		Longitude:    &lon,
		SetGeography: true,
		Locality:     &locality,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Country != nil || p.City != nil {
		t.Fatalf("expected geography overwritten with nulls, got %+v", p)
	}
	if p.Locality != "Etc/GMT-1" {
		t.Fatalf("expected new locality, got %q", p.Locality)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	desc := "whatever"
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE places SET description = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ?",
	)).
		WithArgs("whatever", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(selectPlaceSQL)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := r.Update(context.Background(), 99, PlaceUpdate{Description: &desc})
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM places WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPlaceRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM places WHERE id = ?")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := r.Delete(context.Background(), 99); !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}
