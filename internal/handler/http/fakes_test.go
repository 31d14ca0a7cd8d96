package http

import (
	"context"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
)

type fakeShiftService struct {
	shift.ShiftService

	clockInFn          func(ctx context.Context, req shift.ClockInRequest) (shift.ShiftResponse, error)
	clockOutFn         func(ctx context.Context, req shift.ClockOutRequest) (shift.ShiftResponse, error)
	getDriverStatusFn  func(ctx context.Context, driverID string) (shift.DriverStatusResponse, error)
	listDriverShiftsFn func(ctx context.Context, driverID string, year, month int) (shift.MonthlyShiftsResponse, error)
	updateShiftFn      func(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error)
}

func (f *fakeShiftService) ClockIn(ctx context.Context, req shift.ClockInRequest) (shift.ShiftResponse, error) {
	return f.clockInFn(ctx, req)
}

func (f *fakeShiftService) ClockOut(ctx context.Context, req shift.ClockOutRequest) (shift.ShiftResponse, error) {
	return f.clockOutFn(ctx, req)
}

func (f *fakeShiftService) GetDriverStatus(ctx context.Context, driverID string) (shift.DriverStatusResponse, error) {
	return f.getDriverStatusFn(ctx, driverID)
}

func (f *fakeShiftService) ListDriverShifts(ctx context.Context, driverID string, year, month int) (shift.MonthlyShiftsResponse, error) {
	return f.listDriverShiftsFn(ctx, driverID, year, month)
}

func (f *fakeShiftService) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	return f.updateShiftFn(ctx, req)
}

type fakePayrollService struct {
	payroll.PayrollService

	calculateDriverPayrollFn     func(ctx context.Context, driverID string, year, month int) (payroll.BreakdownResponse, error)
	calculateAllDriversPayrollFn func(ctx context.Context, year, month int) (payroll.AllDriversPayrollResponse, error)
	createConfigFn               func(ctx context.Context, req payroll.CreateConfigRequest) (payroll.ConfigResponse, error)
}

func (f *fakePayrollService) CalculateDriverPayroll(ctx context.Context, driverID string, year, month int) (payroll.BreakdownResponse, error) {
	return f.calculateDriverPayrollFn(ctx, driverID, year, month)
}

func (f *fakePayrollService) CalculateAllDriversPayroll(ctx context.Context, year, month int) (payroll.AllDriversPayrollResponse, error) {
	return f.calculateAllDriversPayrollFn(ctx, year, month)
}

func (f *fakePayrollService) CreateConfig(ctx context.Context, req payroll.CreateConfigRequest) (payroll.ConfigResponse, error) {
	return f.createConfigFn(ctx, req)
}

type fakeAdvanceService struct {
	advance.AdvanceService

	calculateEligibilityFn func(ctx context.Context, driverID string, amount *float64) (advance.EligibilityResponse, error)
	requestAdvanceFn       func(ctx context.Context, req advance.RequestAdvanceRequest) (advance.AdvanceResponse, error)
	approveAdvanceFn       func(ctx context.Context, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error)
}

func (f *fakeAdvanceService) CalculateEligibility(ctx context.Context, driverID string, amount *float64) (advance.EligibilityResponse, error) {
	return f.calculateEligibilityFn(ctx, driverID, amount)
}

func (f *fakeAdvanceService) RequestAdvance(ctx context.Context, req advance.RequestAdvanceRequest) (advance.AdvanceResponse, error) {
	return f.requestAdvanceFn(ctx, req)
}

func (f *fakeAdvanceService) ApproveAdvance(ctx context.Context, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	return f.approveAdvanceFn(ctx, req)
}
