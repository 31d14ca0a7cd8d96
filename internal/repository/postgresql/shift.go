package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation         = "23505"
	activeShiftIndexName    = "uq_shifts_one_active_per_driver"
	shiftColumns            = `s.id, s.driver_id, s.clock_in_time, s.clock_out_time, s.start_odometer, s.end_odometer, s.total_distance, s.duration_minutes, s.status, s.created_at, s.updated_at, d.full_name`
	shiftFromWithDriverJoin = `FROM shifts s JOIN drivers d ON d.id = s.driver_id`
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.DriverID, &s.ClockInTime, &s.ClockOutTime, &s.StartOdometer, &s.EndOdometer,
		&s.TotalDistance, &s.DurationMinutes, &s.Status, &s.CreatedAt, &s.UpdatedAt, &s.DriverName,
	)
	return s, err
}

func (r *shiftRepository) queryOne(ctx context.Context, where string, args ...any) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` ` + shiftFromWithDriverJoin + ` ` + where + ` LIMIT 1`

	s, err := scanShift(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepository) queryMany(ctx context.Context, where string, args ...any) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` ` + shiftFromWithDriverJoin + ` ` + where

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (driver_id, clock_in_time, start_odometer, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, s.DriverID, s.ClockInTime, s.StartOdometer, s.Status).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeShiftIndexName {
			return shift.Shift{}, shift.ErrActiveShiftExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, err := r.queryOne(ctx, `WHERE s.id = $1`, id)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	if s == nil {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return *s, nil
}

func (r *shiftRepository) GetActiveByDriver(ctx context.Context, driverID string) (*shift.Shift, error) {
	s, err := r.queryOne(ctx, `WHERE s.driver_id = $1 AND s.status = 'active'`, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) GetLastCompletedByDriver(ctx context.Context, driverID string) (*shift.Shift, error) {
	s, err := r.queryOne(ctx, `WHERE s.driver_id = $1 AND s.status = 'completed' ORDER BY s.clock_in_time DESC`, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last completed shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepository) GetNeighbours(ctx context.Context, driverID string, clockIn time.Time, excludeID string) (*shift.Shift, *shift.Shift, error) {
	prev, err := r.queryOne(ctx,
		`WHERE s.driver_id = $1 AND s.id <> $2 AND s.clock_in_time < $3 ORDER BY s.clock_in_time DESC`,
		driverID, excludeID, clockIn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get previous shift: %w", err)
	}

	next, err := r.queryOne(ctx,
		`WHERE s.driver_id = $1 AND s.id <> $2 AND s.clock_in_time >= $3 ORDER BY s.clock_in_time ASC`,
		driverID, excludeID, clockIn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get next shift: %w", err)
	}

	return prev, next, nil
}

func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET clock_in_time = $2, clock_out_time = $3, start_odometer = $4, end_odometer = $5,
			total_distance = $6, duration_minutes = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		s.ID, s.ClockInTime, s.ClockOutTime, s.StartOdometer, s.EndOdometer,
		s.TotalDistance, s.DurationMinutes, s.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (r *shiftRepository) ListByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]shift.Shift, error) {
	shifts, err := r.queryMany(ctx,
		`WHERE s.driver_id = $1 AND s.clock_in_time >= $2 AND s.clock_in_time < $3 ORDER BY s.clock_in_time`,
		driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

func (r *shiftRepository) ListCompletedByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]shift.Shift, error) {
	shifts, err := r.queryMany(ctx,
		`WHERE s.driver_id = $1 AND s.status = 'completed' AND s.clock_in_time >= $2 AND s.clock_in_time < $3 ORDER BY s.clock_in_time`,
		driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed shifts: %w", err)
	}
	return shifts, nil
}

func (r *shiftRepository) CountByDriverBetween(ctx context.Context, driverID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM shifts WHERE driver_id = $1 AND clock_in_time >= $2 AND clock_in_time < $3`,
		driverID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}
	return count, nil
}

func (r *shiftRepository) CountCompletedByDriver(ctx context.Context, driverID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM shifts WHERE driver_id = $1 AND status = 'completed'`,
		driverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed shifts: %w", err)
	}
	return count, nil
}

func (r *shiftRepository) ListActiveStartedBefore(ctx context.Context, cutoff time.Time) ([]shift.Shift, error) {
	shifts, err := r.queryMany(ctx,
		`WHERE s.status = 'active' AND s.clock_in_time < $1 ORDER BY s.clock_in_time`,
		cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shifts: %w", err)
	}
	return shifts, nil
}
