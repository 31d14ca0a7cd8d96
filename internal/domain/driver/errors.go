package driver

import "errors"

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrDriverInactive = errors.New("driver is not active")
)
