package advance

import (
	"context"
	"time"
)

type AdvanceRepository interface {
	Create(ctx context.Context, a Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	Update(ctx context.Context, a Advance) error
	ListByDriver(ctx context.Context, driverID string) ([]Advance, error)

	// ListOutstandingByDriver returns approved or paid advances not yet settled.
	ListOutstandingByDriver(ctx context.Context, driverID string) ([]Advance, error)

	// CountRequestedBetween counts requests of any status with request date in [from, to).
	CountRequestedBetween(ctx context.Context, driverID string, from, to time.Time) (int, error)

	// ListSettledForPeriod returns advances settled against the payroll month.
	ListSettledForPeriod(ctx context.Context, driverID string, year, month int) ([]Advance, error)
}

type ConfigRepository interface {
	// GetCurrent returns the latest stored policy, or DefaultConfig when none exists.
	GetCurrent(ctx context.Context) (Config, error)
	Create(ctx context.Context, cfg Config) (Config, error)
}
