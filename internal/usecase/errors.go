package usecase

import "errors"

// Sentinel errors shared by the pipeline services. The HTTP layer maps
// them to response statuses; cmd exit paths log and wrap them.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
