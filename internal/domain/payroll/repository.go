package payroll

import (
	"context"
	"time"
)

// ConfigRepository stores payroll configuration versions. It never updates
// or deletes a version.
type ConfigRepository interface {
	// GetCurrent returns the latest version effective at or before at, or
	// ErrConfigurationMissing.
	GetCurrent(ctx context.Context, at time.Time) (Config, error)

	Create(ctx context.Context, cfg Config) (Config, error)

	// List returns versions newest first.
	List(ctx context.Context, limit int) ([]Config, error)
}
