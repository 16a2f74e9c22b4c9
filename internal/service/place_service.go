// Package service contains the place orchestration logic: it composes the
// resolver, the store and the notifier into the create/list/update/delete
// use cases and owns their ordering guarantees. Geography is resolved before
// anything is persisted, and change events are published only after the
// record hit the database.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/favorite-places/internal/geo"
	"github.com/iliyamo/favorite-places/internal/queue"
	"github.com/iliyamo/favorite-places/internal/repository"
)

// ErrValidation marks malformed input (out-of-range coordinates, empty
// description, bad pagination). Handlers translate it into an HTTP 422
// response. Wrapped errors carry the specific reason.
var ErrValidation = errors.New("validation failed")

// Store is the persistence surface the service needs. *repository.PlaceRepo
// satisfies it; tests inject fakes.
type Store interface {
	Create(ctx context.Context, p *repository.Place) error
	GetByID(ctx context.Context, id uint64) (*repository.Place, error)
	Search(ctx context.Context, q repository.SearchQuery) ([]*repository.Place, int64, error)
	Update(ctx context.Context, id uint64, u repository.PlaceUpdate) (*repository.Place, error)
	Delete(ctx context.Context, id uint64) error
}

// Notifier publishes a change event after a successful mutation. *queue.Publisher
// satisfies it.
type Notifier interface {
	PublishPlaceEvent(ctx context.Context, ev queue.PlaceEvent) error
}

// PlacePatch carries the fields of a PATCH request. Nil means "not
// submitted". Geography recomputation is keyed off the presence of either
// coordinate field, not off a value diff: resubmitting unchanged coordinates
// still re-resolves.
type PlacePatch struct {
	Latitude    *float64
	Longitude   *float64
	Description *string
}

// Page is the envelope returned by List.
type Page struct {
	Items []*repository.Place `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// PlaceService coordinates place use cases.
type PlaceService struct {
	store    Store
	resolver geo.Resolver
	notifier Notifier
}

// NewPlaceService creates a PlaceService.
func NewPlaceService(store Store, resolver geo.Resolver, notifier Notifier) *PlaceService {
	return &PlaceService{store: store, resolver: resolver, notifier: notifier}
}

// Create validates the input, resolves geography for the coordinates,
// persists the new place and publishes a created event. Resolver
// unavailability never fails the call; the record is stored with the
// fallback locality and null country/city instead.
func (s *PlaceService) Create(ctx context.Context, lat, lon float64, description string) (*repository.Place, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	g := s.resolver.Resolve(ctx, lat, lon)
	p := &repository.Place{
		Latitude:    lat,
		Longitude:   lon,
		Description: description,
		Country:     g.Country,
		City:        g.City,
		Locality:    g.Locality,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}
	s.notify(ctx, p, queue.KindCreated)
	return p, nil
}

// Get returns one place by id.
func (s *PlaceService) Get(ctx context.Context, id uint64) (*repository.Place, error) {
	return s.store.GetByID(ctx, id)
}

// List returns one page of places. Zero page/size take the defaults (page 1,
// size 50); explicit values below 1 are rejected. Listing is a pure read:
// neither the resolver nor the notifier is involved.
func (s *PlaceService) List(ctx context.Context, q repository.SearchQuery) (*Page, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 50
	}
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("%w: size must be >= 1", ErrValidation)
	}

	items, total, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	if items == nil {
		items = []*repository.Place{}
	}
	return &Page{Items: items, Total: total, Page: q.Page, Size: q.PageSize}, nil
}

// Update applies a partial update. When the patch carries latitude or
// longitude, geography is re-resolved from the submitted coordinates (the
// stored value fills whichever of the pair was not submitted) and all three
// geography fields are overwritten with the fresh result. A description-only
// patch leaves geography untouched.
func (s *PlaceService) Update(ctx context.Context, id uint64, patch PlacePatch) (*repository.Place, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	u := repository.PlaceUpdate{
		Latitude:    patch.Latitude,
		Longitude:   patch.Longitude,
		Description: patch.Description,
	}
	if patch.Latitude != nil || patch.Longitude != nil {
		lat, lon := current.Latitude, current.Longitude
		if patch.Latitude != nil {
			lat = *patch.Latitude
		}
		if patch.Longitude != nil {
			lon = *patch.Longitude
		}
		if err := validateCoordinates(lat, lon); err != nil {
			return nil, err
		}
		g := s.resolver.Resolve(ctx, lat, lon)
		u.SetGeography = true
		u.Country = g.Country
		u.City = g.City
		u.Locality = &g.Locality
	}

	updated, err := s.store.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, queue.KindUpdated)
	return updated, nil
}

// Delete removes a place and publishes a deleted event carrying just the
// identifier. Deleting an unknown or already-deleted id surfaces the store's
// not-found error.
func (s *PlaceService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	ev := queue.PlaceEvent{
		PlaceID:    id,
		Kind:       queue.KindDeleted,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.notifier.PublishPlaceEvent(ctx, ev); err != nil {
		log.Printf("place-service: publish deleted event for place %d failed: %v", id, err)
	}
	return nil
}

// notify publishes a full-record event. Publish failures are logged and
// swallowed: the mutation already persisted, so it stays successful.
func (s *PlaceService) notify(ctx context.Context, p *repository.Place, kind string) {
	ev := queue.PlaceEvent{
		PlaceID:     p.ID,
		Kind:        kind,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Description: p.Description,
		Country:     p.Country,
		City:        p.City,
		Locality:    p.Locality,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.notifier.PublishPlaceEvent(ctx, ev); err != nil {
		log.Printf("place-service: publish %s event for place %d failed: %v", kind, p.ID, err)
	}
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
	}
	return nil
}
