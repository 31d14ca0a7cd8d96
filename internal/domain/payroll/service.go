package payroll

import "context"

type PayrollService interface {
	// CalculateDriverPayroll fails with ErrInvalidPeriod, driver.ErrDriverNotFound
	// or ErrConfigurationMissing.
	CalculateDriverPayroll(ctx context.Context, driverID string, year, month int) (BreakdownResponse, error)

	// CalculateAllDriversPayroll isolates per-driver failures in their rows.
	CalculateAllDriversPayroll(ctx context.Context, year, month int) (AllDriversPayrollResponse, error)

	GetCurrentConfig(ctx context.Context) (ConfigResponse, error)
	CreateConfig(ctx context.Context, req CreateConfigRequest) (ConfigResponse, error)
	ListConfigHistory(ctx context.Context) ([]ConfigResponse, error)
}
