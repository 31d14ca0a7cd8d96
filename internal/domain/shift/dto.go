package shift

import (
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ClockInRequest struct {
	DriverID      string `json:"-"`
	StartOdometer *int64 `json:"start_odometer"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "is required"})
	}
	if r.StartOdometer == nil {
		errs = append(errs, validator.ValidationError{Field: "start_odometer", Message: "is required"})
	} else if *r.StartOdometer < 0 {
		errs = append(errs, validator.ValidationError{Field: "start_odometer", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	DriverID    string `json:"-"`
	EndOdometer *int64 `json:"end_odometer"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "is required"})
	}
	if r.EndOdometer == nil {
		errs = append(errs, validator.ValidationError{Field: "end_odometer", Message: "is required"})
	} else if *r.EndOdometer < 0 {
		errs = append(errs, validator.ValidationError{Field: "end_odometer", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateShiftRequest is the admin correction of a completed shift. Only the
// named fields can change; nil means unchanged.
type UpdateShiftRequest struct {
	ID            string  `json:"-"`
	AdminID       string  `json:"-"`
	ClockInTime   *string `json:"clock_in_time,omitempty"`
	ClockOutTime  *string `json:"clock_out_time,omitempty"`
	StartOdometer *int64  `json:"start_odometer,omitempty"`
	EndOdometer   *int64  `json:"end_odometer,omitempty"`
	Reason        string  `json:"reason"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if r.ClockInTime == nil && r.ClockOutTime == nil && r.StartOdometer == nil && r.EndOdometer == nil {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "at least one field must be updated"})
	}
	if r.ClockInTime != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockInTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "clock_in_time", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.ClockOutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOutTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "clock_out_time", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.StartOdometer != nil && *r.StartOdometer < 0 {
		errs = append(errs, validator.ValidationError{Field: "start_odometer", Message: "must be non-negative"})
	}
	if r.EndOdometer != nil && *r.EndOdometer < 0 {
		errs = append(errs, validator.ValidationError{Field: "end_odometer", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID              string           `json:"id"`
	DriverID        string           `json:"driver_id"`
	DriverName      *string          `json:"driver_name,omitempty"`
	ClockInTime     string           `json:"clock_in_time"`
	ClockOutTime    *string          `json:"clock_out_time,omitempty"`
	StartOdometer   int64            `json:"start_odometer"`
	EndOdometer     *int64           `json:"end_odometer,omitempty"`
	TotalDistance   *int64           `json:"total_distance,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Status          string           `json:"status"`
	RegularHours    *decimal.Decimal `json:"regular_hours,omitempty"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours,omitempty"`
}

type DriverStatusResponse struct {
	HasActiveShift  bool           `json:"has_active_shift"`
	CurrentShift    *ShiftResponse `json:"current_shift,omitempty"`
	TodayShiftCount int            `json:"today_shift_count"`
}

type WorkSummaryResponse struct {
	WorkingDays   int             `json:"working_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	TotalDistance int64           `json:"total_distance"`
}

type MonthlyShiftsResponse struct {
	DriverID string              `json:"driver_id"`
	Year     int                 `json:"year"`
	Month    int                 `json:"month"`
	Shifts   []ShiftResponse     `json:"shifts"`
	Summary  WorkSummaryResponse `json:"summary"`
}
