package report

import "errors"

var (
	// ErrDataUnavailable wraps any adapter failure; the whole aggregation fails.
	ErrDataUnavailable = errors.New("attendance data could not be loaded, please retry")
)
