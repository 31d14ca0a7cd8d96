package payroll

import (
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== PERIOD ==========

type PeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *PeriodRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPeriod(r.Year, 1, now) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2020 and next year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== CONFIG DTOs ==========

type CreateConfigRequest struct {
	CreatedBy     string   `json:"-"`
	MonthlySalary *float64 `json:"monthly_salary"`
	OvertimeRate  *float64 `json:"overtime_rate"`
	FuelAllowance *float64 `json:"fuel_allowance"`
	WorkingHours  *float64 `json:"working_hours"`
	EffectiveFrom *string  `json:"effective_from,omitempty"`
}

func (r *CreateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.MonthlySalary == nil {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "is required"})
	} else if !validator.IsPositive(*r.MonthlySalary) {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must be positive"})
	}
	if r.OvertimeRate == nil {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "is required"})
	} else if !validator.IsNonNegative(*r.OvertimeRate) {
		errs = append(errs, validator.ValidationError{Field: "overtime_rate", Message: "must be non-negative"})
	}
	if r.FuelAllowance == nil {
		errs = append(errs, validator.ValidationError{Field: "fuel_allowance", Message: "is required"})
	} else if !validator.IsNonNegative(*r.FuelAllowance) {
		errs = append(errs, validator.ValidationError{Field: "fuel_allowance", Message: "must be non-negative"})
	}
	if r.WorkingHours == nil {
		errs = append(errs, validator.ValidationError{Field: "working_hours", Message: "is required"})
	} else if !validator.IsPositive(*r.WorkingHours) || *r.WorkingHours > 24 {
		errs = append(errs, validator.ValidationError{Field: "working_hours", Message: "must be between 0 and 24"})
	}
	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDateTime(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be an RFC3339 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConfigResponse struct {
	ID            string          `json:"id"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
	OvertimeRate  decimal.Decimal `json:"overtime_rate"`
	FuelAllowance decimal.Decimal `json:"fuel_allowance"`
	WorkingHours  decimal.Decimal `json:"working_hours"`
	EffectiveFrom string          `json:"effective_from"`
	CreatedBy     *string         `json:"created_by,omitempty"`
}

// ========== BREAKDOWN DTOs ==========

type LeaveUsageResponse struct {
	PaidDays   int `json:"paid_days"`
	UnpaidDays int `json:"unpaid_days"`
}

type BreakdownResponse struct {
	DriverID    string `json:"driver_id"`
	DriverName  string `json:"driver_name"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	DaysInMonth int    `json:"days_in_month"`

	WorkingDays   int             `json:"working_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	TotalDistance int64           `json:"total_distance"`

	BaseSalary     decimal.Decimal `json:"base_salary"`
	OvertimePay    decimal.Decimal `json:"overtime_pay"`
	FuelAllowance  decimal.Decimal `json:"fuel_allowance"`
	LeaveDeduction decimal.Decimal `json:"leave_deduction"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`

	Leave       LeaveUsageResponse `json:"leave"`
	AnnualLeave LeaveUsageResponse `json:"annual_leave"`

	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	NetPayable       decimal.Decimal `json:"net_payable"`

	Config ConfigResponse `json:"config"`
}

type DriverPayrollRow struct {
	BreakdownResponse
	Error *string `json:"error,omitempty"`
}

type PayrollSummaryResponse struct {
	DriverCount        int             `json:"driver_count"`
	CalculatedCount    int             `json:"calculated_count"`
	FailedCount        int             `json:"failed_count"`
	TotalPayroll       decimal.Decimal `json:"total_payroll"`
	AverageEarnings    decimal.Decimal `json:"average_earnings"`
	TotalWorkingDays   int             `json:"total_working_days"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
}

type AllDriversPayrollResponse struct {
	Year    int                    `json:"year"`
	Month   int                    `json:"month"`
	Drivers []DriverPayrollRow     `json:"drivers"`
	Summary PayrollSummaryResponse `json:"summary"`
	Config  ConfigResponse         `json:"config"`
}
