package driver

import "time"

// Driver is owned by the identity/admin subsystem; this service only reads it.
type Driver struct {
	ID        string
	FullName  string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
