package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type driverRepository struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, phone, is_active, created_at, updated_at
		FROM drivers
		WHERE id = $1
	`

	var d driver.Driver
	err := q.QueryRow(ctx, query, id).Scan(&d.ID, &d.FullName, &d.Phone, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}

	return d, nil
}

func (r *driverRepository) ListActive(ctx context.Context) ([]driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, phone, is_active, created_at, updated_at
		FROM drivers
		WHERE is_active = TRUE
		ORDER BY full_name, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active drivers: %w", err)
	}
	defer rows.Close()

	var drivers []driver.Driver
	for rows.Next() {
		var d driver.Driver
		if err := rows.Scan(&d.ID, &d.FullName, &d.Phone, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}

	return drivers, rows.Err()
}
