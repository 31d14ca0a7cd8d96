package payroll

import (
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/money"
)

func toConfigResponse(cfg payroll.Config) payroll.ConfigResponse {
	return payroll.ConfigResponse{
		ID:            cfg.ID,
		MonthlySalary: money.Round2(cfg.MonthlySalary),
		OvertimeRate:  money.Round2(cfg.OvertimeRate),
		FuelAllowance: money.Round2(cfg.FuelAllowance),
		WorkingHours:  money.Hours(cfg.WorkingHours),
		EffectiveFrom: cfg.EffectiveFrom.UTC().Format(time.RFC3339),
		CreatedBy:     cfg.CreatedBy,
	}
}

func toBreakdownResponse(bd payroll.Breakdown) payroll.BreakdownResponse {
	return payroll.BreakdownResponse{
		DriverID:    bd.DriverID,
		DriverName:  bd.DriverName,
		Year:        bd.Year,
		Month:       bd.Month,
		DaysInMonth: bd.DaysInMonth,

		WorkingDays:   bd.WorkingDays,
		TotalHours:    money.Hours(bd.TotalHours),
		RegularHours:  money.Hours(bd.RegularHours),
		OvertimeHours: money.Hours(bd.OvertimeHours),
		TotalDistance: bd.TotalDistance,

		BaseSalary:     money.Round2(bd.BaseSalary),
		OvertimePay:    money.Round2(bd.OvertimePay),
		FuelAllowance:  money.Round2(bd.FuelAllowance),
		LeaveDeduction: money.Round2(bd.LeaveDeduction),
		TotalEarnings:  money.Round2(bd.TotalEarnings),

		Leave:       payroll.LeaveUsageResponse{PaidDays: bd.PaidLeaveDays, UnpaidDays: bd.UnpaidLeaveDays},
		AnnualLeave: payroll.LeaveUsageResponse{PaidDays: bd.AnnualPaidLeaveDays, UnpaidDays: bd.AnnualUnpaidLeaveDays},

		AdvanceDeduction: money.Round2(bd.AdvanceDeduction),
		NetPayable:       money.Round2(bd.NetPayable),

		Config: toConfigResponse(bd.Config),
	}
}

func toSummaryResponse(sum payroll.BatchSummary) payroll.PayrollSummaryResponse {
	return payroll.PayrollSummaryResponse{
		DriverCount:        sum.DriverCount,
		CalculatedCount:    sum.CalculatedCount,
		FailedCount:        sum.FailedCount,
		TotalPayroll:       money.Round2(sum.TotalPayroll),
		AverageEarnings:    money.Round2(sum.AverageEarnings),
		TotalWorkingDays:   sum.TotalWorkingDays,
		TotalOvertimeHours: money.Hours(sum.TotalOvertimeHours),
	}
}
