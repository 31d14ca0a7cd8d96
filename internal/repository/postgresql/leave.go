package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) ListApprovedBetween(ctx context.Context, driverID string, from, to time.Time) ([]leave.Record, error) {
	q := GetQuerier(ctx, r.db)

	// leave_date is a DATE; compare against the local calendar days of the range.
	query := `
		SELECT id, driver_id, leave_date, leave_type, status, reason, created_at
		FROM leave_records
		WHERE driver_id = $1 AND status = 'approved'
		  AND leave_date >= $2::date AND leave_date < $3::date
		ORDER BY leave_date
	`

	rows, err := q.Query(ctx, query, driverID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var records []leave.Record
	for rows.Next() {
		var rec leave.Record
		if err := rows.Scan(&rec.ID, &rec.DriverID, &rec.LeaveDate, &rec.Type, &rec.Status, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
