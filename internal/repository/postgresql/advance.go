package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `id, driver_id, request_date, requested_amount, approved_amount, reason, status,
	approved_by, approved_at, rejection_reason, overrode_monthly_limit, paid_at, settled_at,
	settlement_year, settlement_month, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var a advance.Advance
	err := row.Scan(
		&a.ID, &a.DriverID, &a.RequestDate, &a.RequestedAmount, &a.ApprovedAmount, &a.Reason, &a.Status,
		&a.ApprovedBy, &a.ApprovedAt, &a.RejectionReason, &a.OverrodeMonthlyLimit, &a.PaidAt, &a.SettledAt,
		&a.SettlementYear, &a.SettlementMonth, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *advanceRepository) list(ctx context.Context, where string, args ...any) ([]advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+advanceColumns+` FROM advance_payments `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []advance.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

func (r *advanceRepository) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_payments (driver_id, request_date, requested_amount, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query, a.DriverID, a.RequestDate, a.RequestedAmount, a.Reason, a.Status))
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}
	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, `SELECT `+advanceColumns+` FROM advance_payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepository) Update(ctx context.Context, a advance.Advance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advance_payments
		SET approved_amount = $2, status = $3, approved_by = $4, approved_at = $5,
			rejection_reason = $6, overrode_monthly_limit = $7, paid_at = $8, settled_at = $9,
			settlement_year = $10, settlement_month = $11, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.ID, a.ApprovedAmount, a.Status, a.ApprovedBy, a.ApprovedAt,
		a.RejectionReason, a.OverrodeMonthlyLimit, a.PaidAt, a.SettledAt,
		a.SettlementYear, a.SettlementMonth,
	)
	if err != nil {
		return fmt.Errorf("failed to update advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}

func (r *advanceRepository) ListByDriver(ctx context.Context, driverID string) ([]advance.Advance, error) {
	advances, err := r.list(ctx, `WHERE driver_id = $1 ORDER BY request_date DESC`, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	return advances, nil
}

func (r *advanceRepository) ListOutstandingByDriver(ctx context.Context, driverID string) ([]advance.Advance, error) {
	advances, err := r.list(ctx,
		`WHERE driver_id = $1 AND status IN ('approved', 'paid') AND settled_at IS NULL ORDER BY request_date`,
		driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding advances: %w", err)
	}
	return advances, nil
}

func (r *advanceRepository) CountRequestedBetween(ctx context.Context, driverID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM advance_payments WHERE driver_id = $1 AND request_date >= $2 AND request_date < $3`,
		driverID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count advance requests: %w", err)
	}
	return count, nil
}

func (r *advanceRepository) ListSettledForPeriod(ctx context.Context, driverID string, year, month int) ([]advance.Advance, error) {
	advances, err := r.list(ctx,
		`WHERE driver_id = $1 AND status = 'settled' AND settlement_year = $2 AND settlement_month = $3 ORDER BY settled_at`,
		driverID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled advances: %w", err)
	}
	return advances, nil
}

// ========== CONFIG ==========

type advanceConfigRepository struct {
	db *database.DB
}

func NewAdvanceConfigRepository(db *database.DB) advance.ConfigRepository {
	return &advanceConfigRepository{db: db}
}

const advanceConfigColumns = `id, max_advance_percentage, max_requests_per_month, min_advance_amount, max_advance_amount, updated_by, created_at`

func scanAdvanceConfig(row pgx.Row) (advance.Config, error) {
	var c advance.Config
	err := row.Scan(&c.ID, &c.MaxAdvancePercentage, &c.MaxRequestsPerMonth, &c.MinAdvanceAmount, &c.MaxAdvanceAmount, &c.UpdatedBy, &c.CreatedAt)
	return c, err
}

func (r *advanceConfigRepository) GetCurrent(ctx context.Context) (advance.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceConfigColumns + ` FROM advance_configs ORDER BY created_at DESC LIMIT 1`

	c, err := scanAdvanceConfig(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.DefaultConfig(), nil
		}
		return advance.Config{}, fmt.Errorf("failed to get advance config: %w", err)
	}
	return c, nil
}

func (r *advanceConfigRepository) Create(ctx context.Context, cfg advance.Config) (advance.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_configs (max_advance_percentage, max_requests_per_month, min_advance_amount, max_advance_amount, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + advanceConfigColumns

	c, err := scanAdvanceConfig(q.QueryRow(ctx, query,
		cfg.MaxAdvancePercentage, cfg.MaxRequestsPerMonth, cfg.MinAdvanceAmount, cfg.MaxAdvanceAmount, cfg.UpdatedBy,
	))
	if err != nil {
		return advance.Config{}, fmt.Errorf("failed to create advance config: %w", err)
	}
	return c, nil
}
