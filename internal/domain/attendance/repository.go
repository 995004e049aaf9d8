package attendance

import (
	"context"
	"time"
)

// EventRepository is the append-only event store. It has no update or delete.
type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	CreateBatch(ctx context.Context, events []Event) (int, error)

	// ListByRange returns events with start <= timestamp < end, ordered by
	// timestamp then ID, joined with user names.
	ListByRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// LastForUser returns the user's most recent event, or nil.
	LastForUser(ctx context.Context, userID string) (*Event, error)
}
