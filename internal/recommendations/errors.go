package recommendations

import "errors"

var (
	ErrNotFound           = errors.New("recommendation not found")
	ErrInvalidInput       = errors.New("invalid analysis input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPersistenceFailure = errors.New("recommendation could not be persisted")
)
