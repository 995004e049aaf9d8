package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type eventRepositoryImpl struct {
	db *database.DB
}

const insertEventQuery = `
	INSERT INTO attendance_events (id, user_id, ts, type, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
`

// Create implements attendance.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, insertEventQuery,
		event.ID,
		event.UserID,
		event.Timestamp,
		string(event.Type),
		event.Latitude,
		event.Longitude,
	).Scan(&event.CreatedAt)
	if err != nil {
		return attendance.Event{}, err
	}
	return event, nil
}

// CreateBatch implements attendance.EventRepository. The batch runs in one
// round trip; callers wanting all-or-nothing wrap it in a transaction.
func (r *eventRepositoryImpl) CreateBatch(ctx context.Context, events []attendance.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(insertEventQuery, e.ID, e.UserID, e.Timestamp, string(e.Type), e.Latitude, e.Longitude)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range events {
		var createdAt time.Time
		if err := results.QueryRow().Scan(&createdAt); err != nil {
			return inserted, fmt.Errorf("failed to insert event %d: %w", i, err)
		}
		inserted++
	}
	return inserted, nil
}

// ListByRange implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListByRange(ctx context.Context, start, end time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id::text, e.user_id::text, e.ts, e.type, e.latitude, e.longitude, e.created_at, u.full_name
		FROM attendance_events e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.ts >= $1 AND e.ts < $2
		ORDER BY e.ts, e.id
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []attendance.Event{}
	for rows.Next() {
		var e attendance.Event
		var eventType string
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Timestamp,
			&eventType,
			&e.Latitude,
			&e.Longitude,
			&e.CreatedAt,
			&e.UserName,
		)
		if err != nil {
			return nil, err
		}
		e.Type = attendance.EventType(eventType)
		events = append(events, e)
	}
	return events, rows.Err()
}

// LastForUser implements attendance.EventRepository.
func (r *eventRepositoryImpl) LastForUser(ctx context.Context, userID string) (*attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, user_id::text, ts, type, latitude, longitude, created_at
		FROM attendance_events
		WHERE user_id::text = $1
		ORDER BY ts DESC, id DESC
		LIMIT 1
	`

	var e attendance.Event
	var eventType string
	err := q.QueryRow(ctx, query, userID).Scan(
		&e.ID,
		&e.UserID,
		&e.Timestamp,
		&eventType,
		&e.Latitude,
		&e.Longitude,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	e.Type = attendance.EventType(eventType)
	return &e, nil
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}
