package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/service/worktime"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	batchConcurrency   = 8
	configHistoryLimit = 50
)

type PayrollServiceImpl struct {
	driverRepo  driver.DriverRepository
	shiftRepo   shift.ShiftRepository
	configRepo  payroll.ConfigRepository
	leaveRepo   leave.LeaveRepository
	advanceRepo advance.AdvanceRepository
	classifier  *worktime.Classifier
	logger      *slog.Logger
	now         func() time.Time

	// configReads coalesces concurrent reads of the current config. Nothing is cached.
	configReads singleflight.Group
}

func NewPayrollService(
	driverRepo driver.DriverRepository,
	shiftRepo shift.ShiftRepository,
	configRepo payroll.ConfigRepository,
	leaveRepo leave.LeaveRepository,
	advanceRepo advance.AdvanceRepository,
	classifier *worktime.Classifier,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		driverRepo:  driverRepo,
		shiftRepo:   shiftRepo,
		configRepo:  configRepo,
		leaveRepo:   leaveRepo,
		advanceRepo: advanceRepo,
		classifier:  classifier,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ========== CONFIG ==========

// currentConfig shares one read among concurrent callers. The read runs
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (s *PayrollServiceImpl) currentConfig(ctx context.Context) (payroll.Config, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.configReads.DoChan("current", func() (any, error) {
		return s.configRepo.GetCurrent(shared, s.now())
	})

	select {
	case <-ctx.Done():
		return payroll.Config{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return payroll.Config{}, res.Err
		}
		return res.Val.(payroll.Config), nil
	}
}

func (s *PayrollServiceImpl) GetCurrentConfig(ctx context.Context) (payroll.ConfigResponse, error) {
	cfg, err := s.currentConfig(ctx)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}
	return toConfigResponse(cfg), nil
}

func (s *PayrollServiceImpl) CreateConfig(ctx context.Context, req payroll.CreateConfigRequest) (payroll.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ConfigResponse{}, err
	}

	effectiveFrom := s.now()
	if req.EffectiveFrom != nil {
		effectiveFrom, _ = validator.IsValidDateTime(*req.EffectiveFrom)
	}

	cfg := payroll.Config{
		MonthlySalary: *req.MonthlySalary,
		OvertimeRate:  *req.OvertimeRate,
		FuelAllowance: *req.FuelAllowance,
		WorkingHours:  *req.WorkingHours,
		EffectiveFrom: effectiveFrom.UTC(),
	}
	if req.CreatedBy != "" {
		cfg.CreatedBy = &req.CreatedBy
	}

	created, err := s.configRepo.Create(ctx, cfg)
	if err != nil {
		return payroll.ConfigResponse{}, fmt.Errorf("failed to create payroll config: %w", err)
	}

	s.logger.Info("payroll config version appended",
		slog.String("config_id", created.ID),
		slog.Time("effective_from", created.EffectiveFrom),
	)
	return toConfigResponse(created), nil
}

func (s *PayrollServiceImpl) ListConfigHistory(ctx context.Context) ([]payroll.ConfigResponse, error) {
	configs, err := s.configRepo.List(ctx, configHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll configs: %w", err)
	}

	result := make([]payroll.ConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		result = append(result, toConfigResponse(cfg))
	}
	return result, nil
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) validatePeriod(year, month int) error {
	req := payroll.PeriodRequest{Year: year, Month: month}
	if err := req.Validate(s.now()); err != nil {
		return fmt.Errorf("%w: %w", payroll.ErrInvalidPeriod, err)
	}
	return nil
}

func (s *PayrollServiceImpl) CalculateDriverPayroll(ctx context.Context, driverID string, year, month int) (payroll.BreakdownResponse, error) {
	bd, err := s.CalculateBreakdown(ctx, driverID, year, month)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}
	return toBreakdownResponse(bd), nil
}

// CalculateBreakdown is CalculateDriverPayroll before rounding.
func (s *PayrollServiceImpl) CalculateBreakdown(ctx context.Context, driverID string, year, month int) (payroll.Breakdown, error) {
	if err := s.validatePeriod(year, month); err != nil {
		return payroll.Breakdown{}, err
	}

	cfg, err := s.currentConfig(ctx)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	drv, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	return s.calculate(ctx, drv, cfg, year, month)
}

func (s *PayrollServiceImpl) calculate(ctx context.Context, drv driver.Driver, cfg payroll.Config, year, month int) (payroll.Breakdown, error) {
	from, to := s.classifier.MonthRange(year, month)

	shifts, err := s.shiftRepo.ListCompletedByDriverBetween(ctx, drv.ID, from, to)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to list completed shifts: %w", err)
	}

	monthLeave, err := leave.GetLeaveUsage(ctx, s.leaveRepo, drv.ID, from, to)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to get leave usage: %w", err)
	}
	annualLeave, err := leave.GetAnnualLeaveUsage(ctx, s.leaveRepo, drv.ID, year, s.classifier.Window().Location)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to get annual leave usage: %w", err)
	}

	settled, err := s.advanceRepo.ListSettledForPeriod(ctx, drv.ID, year, month)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to list settled advances: %w", err)
	}

	bd := Compute(cfg, s.classifier.Summarize(shifts), monthLeave, year, month)
	bd.DriverID = drv.ID
	bd.DriverName = drv.FullName
	bd.AnnualPaidLeaveDays = annualLeave.PaidDays
	bd.AnnualUnpaidLeaveDays = annualLeave.UnpaidDays
	for _, a := range settled {
		bd.AdvanceDeduction += a.OutstandingAmount()
	}
	bd.NetPayable = bd.TotalEarnings - bd.AdvanceDeduction

	return bd, nil
}

// Compute turns a month's work summary and leave into earnings. The salary
// proration ratio is capped at 1 so several shifts on one day cannot push
// base salary above the monthly salary.
func Compute(cfg payroll.Config, work worktime.Summary, monthLeave leave.Usage, year, month int) payroll.Breakdown {
	daysInMonth := payroll.DaysIn(year, month)
	prorated := min(work.WorkingDays, daysInMonth)
	dailySalary := cfg.MonthlySalary / float64(daysInMonth)

	bd := payroll.Breakdown{
		Year:            year,
		Month:           month,
		DaysInMonth:     daysInMonth,
		WorkingDays:     work.WorkingDays,
		TotalHours:      work.TotalHours,
		RegularHours:    work.RegularHours,
		OvertimeHours:   work.OvertimeHours,
		TotalDistance:   work.TotalDistance,
		BaseSalary:      cfg.MonthlySalary * float64(prorated) / float64(daysInMonth),
		OvertimePay:     work.OvertimeHours * cfg.OvertimeRate,
		FuelAllowance:   float64(work.WorkingDays) * cfg.FuelAllowance,
		LeaveDeduction:  float64(monthLeave.UnpaidDays) * dailySalary,
		PaidLeaveDays:   monthLeave.PaidDays,
		UnpaidLeaveDays: monthLeave.UnpaidDays,
		Config:          cfg,
	}
	bd.TotalEarnings = bd.BaseSalary + bd.OvertimePay + bd.FuelAllowance - bd.LeaveDeduction
	bd.NetPayable = bd.TotalEarnings
	return bd
}

// ========== BATCH ==========

func (s *PayrollServiceImpl) CalculateAllDriversPayroll(ctx context.Context, year, month int) (payroll.AllDriversPayrollResponse, error) {
	results, summary, cfg, err := s.CalculateBatch(ctx, year, month)
	if err != nil {
		return payroll.AllDriversPayrollResponse{}, err
	}

	resp := payroll.AllDriversPayrollResponse{
		Year:    year,
		Month:   month,
		Drivers: make([]payroll.DriverPayrollRow, 0, len(results)),
		Summary: toSummaryResponse(summary),
		Config:  toConfigResponse(cfg),
	}
	for _, r := range results {
		row := payroll.DriverPayrollRow{BreakdownResponse: toBreakdownResponse(r.Breakdown)}
		if r.Err != nil {
			msg := r.Err.Error()
			row.Error = &msg
		}
		resp.Drivers = append(resp.Drivers, row)
	}
	return resp, nil
}

// CalculateBatch runs every active driver against one config snapshot. A
// driver's failure is recorded in its row; only systemic failures return an error.
func (s *PayrollServiceImpl) CalculateBatch(ctx context.Context, year, month int) ([]payroll.DriverResult, payroll.BatchSummary, payroll.Config, error) {
	if err := s.validatePeriod(year, month); err != nil {
		return nil, payroll.BatchSummary{}, payroll.Config{}, err
	}

	cfg, err := s.currentConfig(ctx)
	if err != nil {
		return nil, payroll.BatchSummary{}, payroll.Config{}, err
	}

	drivers, err := s.driverRepo.ListActive(ctx)
	if err != nil {
		return nil, payroll.BatchSummary{}, payroll.Config{}, fmt.Errorf("failed to list active drivers: %w", err)
	}

	results := make([]payroll.DriverResult, len(drivers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, drv := range drivers {
		g.Go(func() error {
			bd, err := s.calculate(gctx, drv, cfg, year, month)
			if err != nil {
				s.logger.Error("payroll calculation failed for driver",
					slog.String("driver_id", drv.ID),
					slog.Int("year", year),
					slog.Int("month", month),
					slog.Any("error", err),
				)
				results[i] = payroll.DriverResult{
					Breakdown: payroll.Breakdown{
						DriverID:    drv.ID,
						DriverName:  drv.FullName,
						Year:        year,
						Month:       month,
						DaysInMonth: payroll.DaysIn(year, month),
						Config:      cfg,
					},
					Err: err,
				}
				return nil
			}
			results[i] = payroll.DriverResult{Breakdown: bd}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, payroll.BatchSummary{}, payroll.Config{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, payroll.BatchSummary{}, payroll.Config{}, err
	}

	return results, Summarize(results), cfg, nil
}

// Summarize totals successful rows; failed rows only count towards FailedCount.
func Summarize(results []payroll.DriverResult) payroll.BatchSummary {
	sum := payroll.BatchSummary{DriverCount: len(results)}
	for _, r := range results {
		if r.Err != nil {
			sum.FailedCount++
			continue
		}
		sum.CalculatedCount++
		sum.TotalPayroll += r.Breakdown.TotalEarnings
		sum.TotalWorkingDays += r.Breakdown.WorkingDays
		sum.TotalOvertimeHours += r.Breakdown.OvertimeHours
	}
	if sum.CalculatedCount > 0 {
		sum.AverageEarnings = sum.TotalPayroll / float64(sum.CalculatedCount)
	}
	return sum
}
