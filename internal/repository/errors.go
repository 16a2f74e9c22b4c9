// Package repository contains data access logic separated from HTTP handlers.
// Sentinel errors defined here let higher layers distinguish failure
// scenarios without inspecting driver-specific error values.
package repository

import "errors"

// ErrPlaceNotFound is returned when a place cannot be found in the DB.
// Handlers should translate this into an HTTP 404 response.
var ErrPlaceNotFound = errors.New("place not found")
