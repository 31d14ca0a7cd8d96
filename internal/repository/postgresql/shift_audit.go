package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
)

// shiftSnapshot is the JSONB shape of a shift inside an audit row.
type shiftSnapshot struct {
	ClockInTime     time.Time  `json:"clock_in_time"`
	ClockOutTime    *time.Time `json:"clock_out_time,omitempty"`
	StartOdometer   int64      `json:"start_odometer"`
	EndOdometer     *int64     `json:"end_odometer,omitempty"`
	TotalDistance   *int64     `json:"total_distance,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Status          string     `json:"status"`
}

func toSnapshot(s shift.Shift) shiftSnapshot {
	return shiftSnapshot{
		ClockInTime:     s.ClockInTime,
		ClockOutTime:    s.ClockOutTime,
		StartOdometer:   s.StartOdometer,
		EndOdometer:     s.EndOdometer,
		TotalDistance:   s.TotalDistance,
		DurationMinutes: s.DurationMinutes,
		Status:          string(s.Status),
	}
}

func (snap shiftSnapshot) toShift(id, driverID string) shift.Shift {
	return shift.Shift{
		ID:              id,
		DriverID:        driverID,
		ClockInTime:     snap.ClockInTime,
		ClockOutTime:    snap.ClockOutTime,
		StartOdometer:   snap.StartOdometer,
		EndOdometer:     snap.EndOdometer,
		TotalDistance:   snap.TotalDistance,
		DurationMinutes: snap.DurationMinutes,
		Status:          shift.Status(snap.Status),
	}
}

type shiftAuditRepository struct {
	db *database.DB
}

func NewShiftAuditRepository(db *database.DB) shift.AuditRepository {
	return &shiftAuditRepository{db: db}
}

func (r *shiftAuditRepository) Create(ctx context.Context, audit shift.Audit) (shift.Audit, error) {
	q := GetQuerier(ctx, r.db)

	before, err := json.Marshal(toSnapshot(audit.Before))
	if err != nil {
		return shift.Audit{}, fmt.Errorf("failed to marshal shift before state: %w", err)
	}
	after, err := json.Marshal(toSnapshot(audit.After))
	if err != nil {
		return shift.Audit{}, fmt.Errorf("failed to marshal shift after state: %w", err)
	}

	query := `
		INSERT INTO shift_audits (shift_id, changed_by, reason, before_state, after_state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = q.QueryRow(ctx, query, audit.ShiftID, audit.ChangedBy, audit.Reason, before, after).Scan(&audit.ID, &audit.CreatedAt)
	if err != nil {
		return shift.Audit{}, fmt.Errorf("failed to create shift audit: %w", err)
	}

	return audit, nil
}

func (r *shiftAuditRepository) ListByShift(ctx context.Context, shiftID string) ([]shift.Audit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.shift_id, s.driver_id, a.changed_by, a.reason, a.before_state, a.after_state, a.created_at
		FROM shift_audits a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.shift_id = $1
		ORDER BY a.created_at
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift audits: %w", err)
	}
	defer rows.Close()

	var audits []shift.Audit
	for rows.Next() {
		var (
			a             shift.Audit
			driverID      string
			before, after []byte
		)
		if err := rows.Scan(&a.ID, &a.ShiftID, &driverID, &a.ChangedBy, &a.Reason, &before, &after, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift audit: %w", err)
		}

		var beforeSnap, afterSnap shiftSnapshot
		if err := json.Unmarshal(before, &beforeSnap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shift before state: %w", err)
		}
		if err := json.Unmarshal(after, &afterSnap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shift after state: %w", err)
		}
		a.Before = beforeSnap.toShift(a.ShiftID, driverID)
		a.After = afterSnap.toShift(a.ShiftID, driverID)

		audits = append(audits, a)
	}

	return audits, rows.Err()
}
