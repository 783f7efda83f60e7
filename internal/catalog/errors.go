package catalog

import "errors"

var (
	ErrNotFound     = errors.New("catalog not found")
	ErrInvalidInput = errors.New("invalid catalog input")
)
