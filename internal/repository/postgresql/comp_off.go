package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const pgUndefinedTable = "42P01"

type compOffRepositoryImpl struct {
	db *database.DB
}

// History implements compoff.Repository. Deployments that never ran the
// comp-off migration report the feature as unavailable.
func (r *compOffRepositoryImpl) History(ctx context.Context, userIDs []string, start, end time.Time) (compoff.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id::text, user_id::text, worked_date, days::text, expires_on, created_at
		FROM comp_off_credits
		WHERE worked_date >= $1 AND worked_date <= $2
		  AND (cardinality($3::text[]) = 0 OR user_id::text = ANY($3))
		ORDER BY worked_date, id
	`

	if userIDs == nil {
		userIDs = []string{}
	}

	rows, err := q.Query(ctx, query, start, end, userIDs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return compoff.UnavailableHistory("comp-off tracking is not enabled"), nil
		}
		return compoff.History{}, err
	}
	defer rows.Close()

	history := compoff.History{Availability: compoff.Available, Credits: []compoff.Credit{}}
	for rows.Next() {
		var c compoff.Credit
		var days string
		if err := rows.Scan(&c.ID, &c.UserID, &c.WorkedDate, &days, &c.ExpiresOn, &c.CreatedAt); err != nil {
			return compoff.History{}, err
		}
		if c.Days, err = decimal.NewFromString(days); err != nil {
			return compoff.History{}, fmt.Errorf("invalid comp-off days for %s: %w", c.ID, err)
		}
		history.Credits = append(history.Credits, c)
	}
	if err := rows.Err(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return compoff.UnavailableHistory("comp-off tracking is not enabled"), nil
		}
		return compoff.History{}, err
	}
	return history, nil
}

func NewCompOffRepository(db *database.DB) compoff.Repository {
	return &compOffRepositoryImpl{db: db}
}
