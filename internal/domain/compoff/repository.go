package compoff

import (
	"context"
	"time"
)

// Repository reads comp-off history. A missing backing table is reported as
// History{Availability: Unavailable} with a nil error; any other failure is an
// error.
type Repository interface {
	History(ctx context.Context, userIDs []string, start, end time.Time) (History, error)
}
