package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
)

type fakeDriverRepository struct {
	getByIDFn    func(ctx context.Context, id string) (driver.Driver, error)
	listActiveFn func(ctx context.Context) ([]driver.Driver, error)
}

func (f *fakeDriverRepository) GetByID(ctx context.Context, id string) (driver.Driver, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return driver.Driver{ID: id, FullName: "Driver " + id, IsActive: true}, nil
}

func (f *fakeDriverRepository) ListActive(ctx context.Context) ([]driver.Driver, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx)
	}
	return nil, nil
}

// fakeShiftRepository only implements the reads the calculator performs.
type fakeShiftRepository struct {
	shift.ShiftRepository
	listCompletedFn func(ctx context.Context, driverID string, from, to time.Time) ([]shift.Shift, error)
}

func (f *fakeShiftRepository) ListCompletedByDriverBetween(ctx context.Context, driverID string, from, to time.Time) ([]shift.Shift, error) {
	if f.listCompletedFn != nil {
		return f.listCompletedFn(ctx, driverID, from, to)
	}
	return nil, nil
}

type fakeConfigRepository struct {
	getCurrentFn func(ctx context.Context, at time.Time) (payroll.Config, error)
	createFn     func(ctx context.Context, cfg payroll.Config) (payroll.Config, error)
	listFn       func(ctx context.Context, limit int) ([]payroll.Config, error)
}

func (f *fakeConfigRepository) GetCurrent(ctx context.Context, at time.Time) (payroll.Config, error) {
	if f.getCurrentFn != nil {
		return f.getCurrentFn(ctx, at)
	}
	return payroll.Config{}, payroll.ErrConfigurationMissing
}

func (f *fakeConfigRepository) Create(ctx context.Context, cfg payroll.Config) (payroll.Config, error) {
	if f.createFn != nil {
		return f.createFn(ctx, cfg)
	}
	cfg.ID = "cfg-new"
	return cfg, nil
}

func (f *fakeConfigRepository) List(ctx context.Context, limit int) ([]payroll.Config, error) {
	if f.listFn != nil {
		return f.listFn(ctx, limit)
	}
	return nil, nil
}

type fakeLeaveRepository struct {
	listApprovedFn func(ctx context.Context, driverID string, from, to time.Time) ([]leave.Record, error)
}

func (f *fakeLeaveRepository) ListApprovedBetween(ctx context.Context, driverID string, from, to time.Time) ([]leave.Record, error) {
	if f.listApprovedFn != nil {
		return f.listApprovedFn(ctx, driverID, from, to)
	}
	return nil, nil
}

type fakeAdvanceRepository struct {
	advance.AdvanceRepository
	listSettledFn func(ctx context.Context, driverID string, year, month int) ([]advance.Advance, error)
}

func (f *fakeAdvanceRepository) ListSettledForPeriod(ctx context.Context, driverID string, year, month int) ([]advance.Advance, error) {
	if f.listSettledFn != nil {
		return f.listSettledFn(ctx, driverID, year, month)
	}
	return nil, nil
}
