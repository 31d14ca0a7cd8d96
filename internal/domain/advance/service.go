package advance

import "context"

type AdvanceService interface {
	// CalculateEligibility is read-only. requestedAmount may be nil.
	CalculateEligibility(ctx context.Context, driverID string, requestedAmount *float64) (EligibilityResponse, error)

	// RequestAdvance fails with a *NotEligibleError when any restriction applies.
	RequestAdvance(ctx context.Context, req RequestAdvanceRequest) (AdvanceResponse, error)
	ListDriverAdvances(ctx context.Context, driverID string) ([]AdvanceResponse, error)

	ApproveAdvance(ctx context.Context, req ApproveAdvanceRequest) (AdvanceResponse, error)
	RejectAdvance(ctx context.Context, req RejectAdvanceRequest) (AdvanceResponse, error)
	MarkPaid(ctx context.Context, id, adminID string) (AdvanceResponse, error)
	SettleAdvance(ctx context.Context, req SettleAdvanceRequest) (AdvanceResponse, error)

	GetConfig(ctx context.Context) (ConfigResponse, error)
	UpdateConfig(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error)
}
