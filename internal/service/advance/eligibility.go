package advance

import (
	"fmt"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
)

// EstimateMonthlyEarnings is the expected monthly pay advances are measured
// against. It deliberately ignores worked shifts; realized pay is computed by
// the payroll calculator.
func EstimateMonthlyEarnings(cfg payroll.Config, assumedWorkingDays int) float64 {
	return cfg.MonthlySalary + cfg.FuelAllowance*float64(assumedWorkingDays)
}

// EligibilityInput is everything the eligibility rules read.
type EligibilityInput struct {
	DriverID           string
	Config             advance.Config
	MonthlyEstimate    float64
	HasEarningsHistory bool
	Outstanding        float64
	MonthRequestCount  int
	RequestedAmount    *float64
}

// Evaluate applies the advance policy. Every check is independent; eligible
// means all of them passed.
func Evaluate(in EligibilityInput) advance.Eligibility {
	cfg := in.Config
	maxLimit := in.MonthlyEstimate * cfg.MaxAdvancePercentage / 100
	available := max(0, maxLimit-in.Outstanding)

	e := advance.Eligibility{
		DriverID:                 in.DriverID,
		MonthlyEarningsEstimate:  in.MonthlyEstimate,
		MaxAdvanceLimit:          maxLimit,
		OutstandingAmount:        in.Outstanding,
		AvailableAmount:          available,
		MaxAdvanceAmount:         min(available, cfg.MaxAdvanceAmount),
		CurrentMonthRequestCount: in.MonthRequestCount,
		RequestedAmount:          in.RequestedAmount,
		Config:                   cfg,
		Checks: advance.Checks{
			HasEarningsHistory:    in.HasEarningsHistory,
			WithinMonthlyLimit:    in.MonthRequestCount < cfg.MaxRequestsPerMonth,
			BelowOutstandingLimit: in.Outstanding < maxLimit,
			WithinAvailableAmount: true,
			AboveMinimumAmount:    true,
			BelowMaximumAmount:    true,
		},
	}

	if in.RequestedAmount != nil {
		amount := *in.RequestedAmount
		e.Checks.WithinAvailableAmount = amount <= available
		e.Checks.AboveMinimumAmount = amount >= cfg.MinAdvanceAmount
		e.Checks.BelowMaximumAmount = amount <= cfg.MaxAdvanceAmount
	}

	if !e.Checks.HasEarningsHistory {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionNoEarningsHistory,
			Message: "no completed shifts or payroll configuration to estimate earnings from",
		})
	}
	if !e.Checks.WithinMonthlyLimit {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionMonthlyLimitReached,
			Message: fmt.Sprintf("maximum of %d advance requests per month reached", cfg.MaxRequestsPerMonth),
			Limit:   float64(cfg.MaxRequestsPerMonth),
		})
	}
	if !e.Checks.BelowOutstandingLimit {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionOutstandingLimit,
			Message: "outstanding advances already reach the advance limit",
			Limit:   maxLimit,
		})
	}
	if !e.Checks.WithinAvailableAmount {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionExceedsAvailable,
			Message: fmt.Sprintf("requested amount exceeds the available %.2f", available),
			Limit:   available,
		})
	}
	if !e.Checks.AboveMinimumAmount {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionBelowMinimum,
			Message: fmt.Sprintf("requested amount is below the minimum %.2f", cfg.MinAdvanceAmount),
			Limit:   cfg.MinAdvanceAmount,
		})
	}
	if !e.Checks.BelowMaximumAmount {
		e.Restrictions = append(e.Restrictions, advance.Restriction{
			Code:    advance.RestrictionAboveMaximum,
			Message: fmt.Sprintf("requested amount is above the maximum %.2f", cfg.MaxAdvanceAmount),
			Limit:   cfg.MaxAdvanceAmount,
		})
	}

	e.Eligible = len(e.Restrictions) == 0
	return e
}
