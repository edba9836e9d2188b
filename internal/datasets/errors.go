package datasets

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for dataset ingestion.
var (
	ErrArchiveOpen         = errors.New("archive could not be opened")
	ErrMissingClassFolders = errors.New("archive is missing class folders")
	ErrInvalidSplitRatio   = errors.New("split ratio must be one of 90, 80, 70")
	ErrInvalidArchive      = errors.New("upload is not a zip archive")
	ErrArchiveTooLarge     = errors.New("archive exceeds the upload size limit")
	ErrDispatch            = errors.New("training dispatch failed")
)

// IngestError records the state an ingestion failed in.
type IngestError struct {
	State State
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingestion failed while %s: %v", e.State, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps dataset domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSplitRatio),
		errors.Is(err, ErrInvalidArchive),
		errors.Is(err, ErrArchiveOpen):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingClassFolders):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrArchiveTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrDispatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
