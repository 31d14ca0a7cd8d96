package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollConfigRepository struct {
	db *database.DB
}

func NewPayrollConfigRepository(db *database.DB) payroll.ConfigRepository {
	return &payrollConfigRepository{db: db}
}

const payrollConfigColumns = `id, monthly_salary, overtime_rate, fuel_allowance, working_hours, effective_from, created_by, created_at`

func scanPayrollConfig(row pgx.Row) (payroll.Config, error) {
	var c payroll.Config
	err := row.Scan(&c.ID, &c.MonthlySalary, &c.OvertimeRate, &c.FuelAllowance, &c.WorkingHours, &c.EffectiveFrom, &c.CreatedBy, &c.CreatedAt)
	return c, err
}

func (r *payrollConfigRepository) GetCurrent(ctx context.Context, at time.Time) (payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollConfigColumns + `
		FROM payroll_configs
		WHERE effective_from <= $1
		ORDER BY effective_from DESC, created_at DESC
		LIMIT 1
	`

	c, err := scanPayrollConfig(q.QueryRow(ctx, query, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Config{}, payroll.ErrConfigurationMissing
		}
		return payroll.Config{}, fmt.Errorf("failed to get current payroll config: %w", err)
	}

	return c, nil
}

func (r *payrollConfigRepository) Create(ctx context.Context, cfg payroll.Config) (payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_configs (monthly_salary, overtime_rate, fuel_allowance, working_hours, effective_from, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + payrollConfigColumns

	c, err := scanPayrollConfig(q.QueryRow(ctx, query,
		cfg.MonthlySalary, cfg.OvertimeRate, cfg.FuelAllowance, cfg.WorkingHours, cfg.EffectiveFrom, cfg.CreatedBy,
	))
	if err != nil {
		return payroll.Config{}, fmt.Errorf("failed to create payroll config: %w", err)
	}

	return c, nil
}

func (r *payrollConfigRepository) List(ctx context.Context, limit int) ([]payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollConfigColumns + `
		FROM payroll_configs
		ORDER BY effective_from DESC, created_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll configs: %w", err)
	}
	defer rows.Close()

	var configs []payroll.Config
	for rows.Next() {
		c, err := scanPayrollConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll config: %w", err)
		}
		configs = append(configs, c)
	}

	return configs, rows.Err()
}
