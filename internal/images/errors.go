package images

import (
	"errors"
	"net/http"
)

// Domain errors for image operations.
var (
	ErrNotFound     = errors.New("image not found")
	ErrDuplicate    = errors.New("image already exists")
	ErrInvalidQuery = errors.New("invalid image query")
)

// MapHTTPStatus maps image domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidQuery) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
