package advance

import (
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/money"
)

func toConfigResponse(cfg advance.Config) advance.ConfigResponse {
	return advance.ConfigResponse{
		MaxAdvancePercentage: money.Round2(cfg.MaxAdvancePercentage),
		MaxRequestsPerMonth:  cfg.MaxRequestsPerMonth,
		MinAdvanceAmount:     money.Round2(cfg.MinAdvanceAmount),
		MaxAdvanceAmount:     money.Round2(cfg.MaxAdvanceAmount),
	}
}

func toEligibilityResponse(e advance.Eligibility) advance.EligibilityResponse {
	resp := advance.EligibilityResponse{
		DriverID:                 e.DriverID,
		Eligible:                 e.Eligible,
		MonthlyEarningsEstimate:  money.Round2(e.MonthlyEarningsEstimate),
		MaxAdvanceLimit:          money.Round2(e.MaxAdvanceLimit),
		OutstandingAmount:        money.Round2(e.OutstandingAmount),
		AvailableAmount:          money.Round2(e.AvailableAmount),
		MaxAdvanceAmount:         money.Round2(e.MaxAdvanceAmount),
		CurrentMonthRequestCount: e.CurrentMonthRequestCount,
		Checks: advance.ChecksResponse{
			HasEarningsHistory:    e.Checks.HasEarningsHistory,
			WithinMonthlyLimit:    e.Checks.WithinMonthlyLimit,
			WithinAvailableAmount: e.Checks.WithinAvailableAmount,
			AboveMinimumAmount:    e.Checks.AboveMinimumAmount,
			BelowMaximumAmount:    e.Checks.BelowMaximumAmount,
			BelowOutstandingLimit: e.Checks.BelowOutstandingLimit,
		},
		Restrictions: make([]advance.RestrictionResponse, 0, len(e.Restrictions)),
		Config:       toConfigResponse(e.Config),
	}
	if e.RequestedAmount != nil {
		requested := money.Round2(*e.RequestedAmount)
		resp.RequestedAmount = &requested
	}
	for _, r := range e.Restrictions {
		resp.Restrictions = append(resp.Restrictions, advance.RestrictionResponse{
			Code:    r.Code,
			Message: r.Message,
			Limit:   money.Round2(r.Limit),
		})
	}
	return resp
}

func toAdvanceResponse(a advance.Advance) advance.AdvanceResponse {
	resp := advance.AdvanceResponse{
		ID:                   a.ID,
		DriverID:             a.DriverID,
		RequestDate:          a.RequestDate.UTC().Format(time.RFC3339),
		RequestedAmount:      money.Round2(a.RequestedAmount),
		Reason:               a.Reason,
		Status:               a.Status,
		ApprovedBy:           a.ApprovedBy,
		ApprovedAt:           formatTime(a.ApprovedAt),
		RejectionReason:      a.RejectionReason,
		OverrodeMonthlyLimit: a.OverrodeMonthlyLimit,
		PaidAt:               formatTime(a.PaidAt),
		SettledAt:            formatTime(a.SettledAt),
		SettlementYear:       a.SettlementYear,
		SettlementMonth:      a.SettlementMonth,
	}
	if a.ApprovedAmount != nil {
		approved := money.Round2(*a.ApprovedAmount)
		resp.ApprovedAmount = &approved
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
