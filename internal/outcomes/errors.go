package outcomes

import "errors"

var (
	ErrNotFound       = errors.New("statistic not found")
	ErrInvalidOutcome = errors.New("invalid outcome type")
)
