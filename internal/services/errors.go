package services

import "errors"

// Error taxonomy for the media store. Handlers map these onto HTTP statuses:
// write/fetch failures are server-side errors, the other two are the caller's.
var (
	ErrWriteFailure      = errors.New("failed to write file to storage")
	ErrFetchFailure      = errors.New("failed to fetch remote image")
	ErrNotFound          = errors.New("media asset not found")
	ErrInvalidEntityType = errors.New("invalid entity type")
)
