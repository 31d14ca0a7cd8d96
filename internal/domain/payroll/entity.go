package payroll

import "time"

// Config is an immutable payroll configuration version. Changing the
// configuration always means appending a new version.
type Config struct {
	ID            string
	MonthlySalary float64
	OvertimeRate  float64 // per overtime hour
	FuelAllowance float64 // per working day
	WorkingHours  float64 // standard hours per day
	EffectiveFrom time.Time
	CreatedBy     *string
	CreatedAt     time.Time
}

// Breakdown is one driver's payroll for one calendar month. Amounts keep full
// float precision; rounding happens when mapping to a response.
type Breakdown struct {
	DriverID    string
	DriverName  string
	Year        int
	Month       int
	DaysInMonth int

	WorkingDays   int
	TotalHours    float64
	RegularHours  float64
	OvertimeHours float64
	TotalDistance int64

	BaseSalary     float64
	OvertimePay    float64
	FuelAllowance  float64
	LeaveDeduction float64
	TotalEarnings  float64

	PaidLeaveDays         int
	UnpaidLeaveDays       int
	AnnualPaidLeaveDays   int
	AnnualUnpaidLeaveDays int

	// AdvanceDeduction is informational: advances settled against this month.
	AdvanceDeduction float64
	NetPayable       float64

	Config Config
}

// DriverResult is one row of a batch run. Err is set when that driver's
// calculation failed; Breakdown then carries zero earnings.
type DriverResult struct {
	Breakdown Breakdown
	Err       error
}

type BatchSummary struct {
	DriverCount        int
	CalculatedCount    int
	FailedCount        int
	TotalPayroll       float64
	AverageEarnings    float64
	TotalWorkingDays   int
	TotalOvertimeHours float64
}

// DaysIn returns the number of calendar days in month of year.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
