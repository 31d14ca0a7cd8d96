package shift

import (
	"errors"
	"fmt"
)

var (
	ErrActiveShiftExists  = errors.New("driver already has an active shift")
	ErrNoActiveShift      = errors.New("driver has no active shift")
	ErrOdometerRegression = errors.New("odometer reading is lower than the previous reading")
	ErrInvalidClockOut    = errors.New("clock-out time must be after clock-in time")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftStillActive   = errors.New("active shift cannot be edited, clock out first")
)

// OdometerRegressionError carries the rejected reading and the lowest
// acceptable one. It matches ErrOdometerRegression with errors.Is.
type OdometerRegressionError struct {
	Reading int64
	Minimum int64
}

func (e *OdometerRegressionError) Error() string {
	return fmt.Sprintf("odometer reading %d is lower than the minimum %d", e.Reading, e.Minimum)
}

func (e *OdometerRegressionError) Is(target error) bool {
	return target == ErrOdometerRegression
}
