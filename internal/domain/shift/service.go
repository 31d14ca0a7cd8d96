package shift

import "context"

// ShiftService enforces the per-driver clock-in/clock-out state machine.
type ShiftService interface {
	// ClockIn opens a shift. Fails with ErrActiveShiftExists or ErrOdometerRegression.
	ClockIn(ctx context.Context, req ClockInRequest) (ShiftResponse, error)

	// ClockOut completes the driver's active shift. Fails with ErrNoActiveShift or ErrOdometerRegression.
	ClockOut(ctx context.Context, req ClockOutRequest) (ShiftResponse, error)

	GetDriverStatus(ctx context.Context, driverID string) (DriverStatusResponse, error)

	ListDriverShifts(ctx context.Context, driverID string, year, month int) (MonthlyShiftsResponse, error)

	// UpdateShift applies an admin correction and records an audit row.
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
}
