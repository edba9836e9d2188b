package results

import (
	"errors"
	"net/http"
)

// Domain errors for training result operations.
var (
	ErrNotFound          = errors.New("training result not found")
	ErrDuplicate         = errors.New("training result already exists")
	ErrInvalidSplitRatio = errors.New("invalid split ratio")
	ErrInvalidMatrix     = errors.New("invalid confusion matrix")
)

// MapHTTPStatus maps result domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidSplitRatio) || errors.Is(err, ErrInvalidMatrix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
