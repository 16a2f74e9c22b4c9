package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/favorite-places/internal/handler" // import the handlers that implement the endpoints
)

// RegisterRoutes registers routes that do not belong to the places API on
// the provided Echo instance.  Currently it exposes only a health check,
// which load balancers and monitoring systems use to verify that the
// service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPlaces registers the favorite-places endpoints under /api/v1.
// Optional middleware (e.g. the Redis rate limiter) applies to the whole
// group.
func RegisterPlaces(e *echo.Echo, h *handler.PlaceHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1/places", mw...)
	// Create a place; geography is resolved from the submitted coordinates.
	g.POST("", h.CreatePlace)
	// Paginated listing with optional exact-match filters.
	g.GET("", h.ListPlaces)
	// Point lookup by identifier.
	g.GET("/:id", h.GetPlace)
	// Partial update; a coordinate-bearing patch re-resolves geography.
	g.PATCH("/:id", h.UpdatePlace)
	// Delete; subsequent reads of the identifier return 404.
	g.DELETE("/:id", h.DeletePlace)
}
