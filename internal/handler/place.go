package handler // handler package contains the favorite-places HTTP handlers

import (
	"errors"   // errors matches sentinel error values from lower layers
	"net/http" // http provides status code constants
	"strconv"  // strconv parses string identifiers and query values

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/favorite-places/internal/repository"
	"github.com/iliyamo/favorite-places/internal/service"
)

// PlaceHandler exposes the place use cases over HTTP. All decision logic
// lives in the service; handlers only bind requests and map errors onto
// status codes.
type PlaceHandler struct {
	Service *service.PlaceService
}

// NewPlaceHandler constructs a PlaceHandler around the given service.
func NewPlaceHandler(s *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{Service: s}
}

// CreatePlace handles POST /api/v1/places and creates a new favorite place.
func (h *PlaceHandler) CreatePlace(c echo.Context) error {
	var body struct {
		Latitude    *float64 `json:"latitude"`  // pointer so a missing field is distinguishable from 0
		Longitude   *float64 `json:"longitude"` // same for longitude
		Description string   `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Latitude == nil || body.Longitude == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "latitude and longitude are required"})
	}

	place, err := h.Service.Create(c.Request().Context(), *body.Latitude, *body.Longitude, body.Description)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create place"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"data": place})
}

// ListPlaces handles GET /api/v1/places and returns one page of places.
// Any subset of {latitude, longitude, description, country, city, locality}
// may be given as exact-match filters; page defaults to 1 and size to 50.
func (h *PlaceHandler) ListPlaces(c echo.Context) error {
	q := repository.SearchQuery{}

	var err error
	if q.Page, err = intQuery(c, "page"); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid page"})
	}
	if q.PageSize, err = intQuery(c, "size"); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid size"})
	}

	if v := c.QueryParam("latitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid latitude"})
		}
		q.Latitude = &f
	}
	if v := c.QueryParam("longitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid longitude"})
		}
		q.Longitude = &f
	}
	if v := c.QueryParam("description"); v != "" {
		q.Description = &v
	}
	if v := c.QueryParam("country"); v != "" {
		q.Country = &v
	}
	if v := c.QueryParam("city"); v != "" {
		q.City = &v
	}
	if v := c.QueryParam("locality"); v != "" {
		q.Locality = &v
	}

	page, err := h.Service.List(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, page)
}

// GetPlace handles GET /api/v1/places/:id.
func (h *PlaceHandler) GetPlace(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	place, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "place not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": place})
}

// UpdatePlace handles PATCH /api/v1/places/:id and applies a partial update.
// Geography is recomputed by the service whenever the patch carries a
// coordinate field.
func (h *PlaceHandler) UpdatePlace(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Description *string  `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	place, err := h.Service.Update(c.Request().Context(), id, service.PlacePatch{
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		Description: body.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlaceNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "place not found"})
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": place})
}

// DeletePlace handles DELETE /api/v1/places/:id. A successful delete returns
// 204 with an empty body; deleting the same id twice yields 404 on the
// second call.
func (h *PlaceHandler) DeletePlace(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPlaceNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "place not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// intQuery parses an optional positive integer query parameter; 0 means the
// parameter was absent and lets the service apply its default. Explicit
// values below 1 are rejected.
func intQuery(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New(name + " must be >= 1")
	}
	return n, nil
}
