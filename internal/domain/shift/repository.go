package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for shifts. Time ranges are half-open
// [from, to) over clock-in instants.
type ShiftRepository interface {
	// Create inserts an active shift. The store guarantees at most one active
	// shift per driver and returns ErrActiveShiftExists when that is violated.
	Create(ctx context.Context, s Shift) (Shift, error)

	GetByID(ctx context.Context, id string) (Shift, error)

	// GetActiveByDriver returns nil, nil when the driver has no active shift.
	GetActiveByDriver(ctx context.Context, driverID string) (*Shift, error)

	// GetLastCompletedByDriver returns the completed shift with the latest
	// clock-in, or nil, nil when the driver has none.
	GetLastCompletedByDriver(ctx context.Context, driverID string) (*Shift, error)

	// GetNeighbours returns the shifts of the same driver immediately before and
	// after clockIn, ignoring excludeID. Either may be nil.
	GetNeighbours(ctx context.Context, driverID string, clockIn time.Time, excludeID string) (prev *Shift, next *Shift, err error)

	Update(ctx context.Context, s Shift) error

	ListByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]Shift, error)
	ListCompletedByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]Shift, error)
	CountByDriverBetween(ctx context.Context, driverID string, from, to time.Time) (int, error)
	CountCompletedByDriver(ctx context.Context, driverID string) (int, error)

	// ListActiveStartedBefore is used by the open-shift watchdog.
	ListActiveStartedBefore(ctx context.Context, cutoff time.Time) ([]Shift, error)
}

type AuditRepository interface {
	Create(ctx context.Context, audit Audit) (Audit, error)
	ListByShift(ctx context.Context, shiftID string) ([]Audit, error)
}
