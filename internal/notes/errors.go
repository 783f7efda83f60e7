package notes

import "errors"

var (
	// ErrNotFound indicates the requested note document does not exist.
	ErrNotFound = errors.New("note document not found")
	// ErrInvalidInput indicates a malformed upload or lookup request.
	ErrInvalidInput = errors.New("invalid input")
)
