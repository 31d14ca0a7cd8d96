package driver

import "context"

type DriverRepository interface {
	// GetByID returns ErrDriverNotFound when no driver has the id.
	GetByID(ctx context.Context, id string) (Driver, error)

	// ListActive returns active drivers ordered by name.
	ListActive(ctx context.Context) ([]Driver, error)
}
