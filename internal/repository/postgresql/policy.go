package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type policyRepositoryImpl struct {
	db *database.DB
}

// GetAttendancePolicy implements policy.Repository. Staff types without a row
// keep the defaults.
func (r *policyRepositoryImpl) GetAttendancePolicy(ctx context.Context) (policy.PolicySet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_type, minimum_hours_full_day::float8, minimum_hours_half_day::float8,
			   sick_leave_certificate_threshold_days, updated_at
		FROM attendance_policies
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return policy.PolicySet{}, err
	}
	defer rows.Close()

	set := policy.DefaultPolicySet()
	for rows.Next() {
		var p policy.AttendancePolicy
		var staffType string
		err := rows.Scan(
			&staffType,
			&p.MinimumHoursFullDay,
			&p.MinimumHoursHalfDay,
			&p.SickLeaveCertificateThresholdDays,
			&p.UpdatedAt,
		)
		if err != nil {
			return policy.PolicySet{}, err
		}
		p.StaffType = policy.StaffType(staffType)
		switch p.StaffType {
		case policy.StaffTypeOffice:
			set.Office = p
		case policy.StaffTypeField:
			set.Field = p
		}
	}
	return set, rows.Err()
}

// GetHolidays implements policy.Repository.
func (r *policyRepositoryImpl) GetHolidays(ctx context.Context) (policy.Holidays, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_type, date, name
		FROM holidays
		ORDER BY date, staff_type
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return policy.Holidays{}, err
	}
	defer rows.Close()

	holidays := policy.Holidays{Office: []policy.Holiday{}, Field: []policy.Holiday{}}
	for rows.Next() {
		var h policy.Holiday
		var staffType string
		if err := rows.Scan(&staffType, &h.Date, &h.Name); err != nil {
			return policy.Holidays{}, err
		}
		h.StaffType = policy.StaffType(staffType)
		switch h.StaffType {
		case policy.StaffTypeOffice:
			holidays.Office = append(holidays.Office, h)
		case policy.StaffTypeField:
			holidays.Field = append(holidays.Field, h)
		}
	}
	return holidays, rows.Err()
}

// UpsertPolicy implements policy.Repository.
func (r *policyRepositoryImpl) UpsertPolicy(ctx context.Context, p policy.AttendancePolicy) (policy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_policies (
			staff_type, minimum_hours_full_day, minimum_hours_half_day, sick_leave_certificate_threshold_days
		)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_type) DO UPDATE SET
			minimum_hours_full_day = EXCLUDED.minimum_hours_full_day,
			minimum_hours_half_day = EXCLUDED.minimum_hours_half_day,
			sick_leave_certificate_threshold_days = EXCLUDED.sick_leave_certificate_threshold_days,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		string(p.StaffType),
		p.MinimumHoursFullDay,
		p.MinimumHoursHalfDay,
		p.SickLeaveCertificateThresholdDays,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return policy.AttendancePolicy{}, err
	}
	return p, nil
}

// CreateHoliday implements policy.Repository.
func (r *policyRepositoryImpl) CreateHoliday(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (staff_type, date, name)
		VALUES ($1, $2, $3)
	`

	if _, err := q.Exec(ctx, query, string(h.StaffType), h.Date, h.Name); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return policy.Holiday{}, policy.ErrHolidayExists
		}
		return policy.Holiday{}, err
	}
	return h, nil
}

// DeleteHoliday implements policy.Repository.
func (r *policyRepositoryImpl) DeleteHoliday(ctx context.Context, staffType policy.StaffType, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM holidays
		WHERE staff_type = $1 AND date = $2
	`

	tag, err := q.Exec(ctx, query, string(staffType), date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return policy.ErrHolidayNotFound
	}
	return nil
}

func NewPolicyRepository(db *database.DB) policy.Repository {
	return &policyRepositoryImpl{db: db}
}
