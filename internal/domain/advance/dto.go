package advance

import (
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type RequestAdvanceRequest struct {
	DriverID string   `json:"-"`
	Amount   *float64 `json:"amount"`
	Reason   *string  `json:"reason,omitempty"`
}

func (r *RequestAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DriverID) {
		errs = append(errs, validator.ValidationError{Field: "driver_id", Message: "is required"})
	}
	if r.Amount == nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "is required"})
	} else if !validator.IsPositive(*r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveAdvanceRequest struct {
	ID      string `json:"-"`
	AdminID string `json:"-"`
	// ApprovedAmount defaults to the requested amount.
	ApprovedAmount       *float64 `json:"approved_amount,omitempty"`
	OverrideMonthlyLimit bool     `json:"override_monthly_limit"`
}

func (r *ApproveAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if r.ApprovedAmount != nil && !validator.IsPositive(*r.ApprovedAmount) {
		errs = append(errs, validator.ValidationError{Field: "approved_amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectAdvanceRequest struct {
	ID      string `json:"-"`
	AdminID string `json:"-"`
	Reason  string `json:"reason"`
}

func (r *RejectAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettleAdvanceRequest struct {
	ID      string `json:"-"`
	AdminID string `json:"-"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

func (r *SettleAdvanceRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidPeriod(r.Year, r.Month, now) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "year or month out of range"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateConfigRequest struct {
	UpdatedBy            string   `json:"-"`
	MaxAdvancePercentage *float64 `json:"max_advance_percentage,omitempty"`
	MaxRequestsPerMonth  *int     `json:"max_requests_per_month,omitempty"`
	MinAdvanceAmount     *float64 `json:"min_advance_amount,omitempty"`
	MaxAdvanceAmount     *float64 `json:"max_advance_amount,omitempty"`
}

// Validate checks the request merged onto current.
func (r *UpdateConfigRequest) Validate(current Config) error {
	var errs validator.ValidationErrors

	merged := r.Apply(current)
	if !validator.IsNonNegative(merged.MaxAdvancePercentage) || merged.MaxAdvancePercentage > 100 {
		errs = append(errs, validator.ValidationError{Field: "max_advance_percentage", Message: "must be between 0 and 100"})
	}
	if merged.MaxRequestsPerMonth < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_requests_per_month", Message: "must be non-negative"})
	}
	if !validator.IsNonNegative(merged.MinAdvanceAmount) {
		errs = append(errs, validator.ValidationError{Field: "min_advance_amount", Message: "must be non-negative"})
	}
	if !validator.IsNonNegative(merged.MaxAdvanceAmount) || merged.MaxAdvanceAmount < merged.MinAdvanceAmount {
		errs = append(errs, validator.ValidationError{Field: "max_advance_amount", Message: "must not be below min_advance_amount"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns current with the non-nil fields of r applied.
func (r *UpdateConfigRequest) Apply(current Config) Config {
	next := current
	next.ID = ""
	if r.MaxAdvancePercentage != nil {
		next.MaxAdvancePercentage = *r.MaxAdvancePercentage
	}
	if r.MaxRequestsPerMonth != nil {
		next.MaxRequestsPerMonth = *r.MaxRequestsPerMonth
	}
	if r.MinAdvanceAmount != nil {
		next.MinAdvanceAmount = *r.MinAdvanceAmount
	}
	if r.MaxAdvanceAmount != nil {
		next.MaxAdvanceAmount = *r.MaxAdvanceAmount
	}
	if r.UpdatedBy != "" {
		next.UpdatedBy = &r.UpdatedBy
	}
	return next
}

// ========== RESPONSE DTOs ==========

type ConfigResponse struct {
	MaxAdvancePercentage decimal.Decimal `json:"max_advance_percentage"`
	MaxRequestsPerMonth  int             `json:"max_requests_per_month"`
	MinAdvanceAmount     decimal.Decimal `json:"min_advance_amount"`
	MaxAdvanceAmount     decimal.Decimal `json:"max_advance_amount"`
}

type RestrictionResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Limit   decimal.Decimal `json:"limit"`
}

type ChecksResponse struct {
	HasEarningsHistory    bool `json:"has_earnings_history"`
	WithinMonthlyLimit    bool `json:"within_monthly_limit"`
	WithinAvailableAmount bool `json:"within_available_amount"`
	AboveMinimumAmount    bool `json:"above_minimum_amount"`
	BelowMaximumAmount    bool `json:"below_maximum_amount"`
	BelowOutstandingLimit bool `json:"below_outstanding_limit"`
}

type EligibilityResponse struct {
	DriverID                 string                `json:"driver_id"`
	Eligible                 bool                  `json:"eligible"`
	MonthlyEarningsEstimate  decimal.Decimal       `json:"monthly_earnings_estimate"`
	MaxAdvanceLimit          decimal.Decimal       `json:"max_advance_limit"`
	OutstandingAmount        decimal.Decimal       `json:"outstanding_amount"`
	AvailableAmount          decimal.Decimal       `json:"available_amount"`
	MaxAdvanceAmount         decimal.Decimal       `json:"max_advance_amount"`
	CurrentMonthRequestCount int                   `json:"current_month_request_count"`
	RequestedAmount          *decimal.Decimal      `json:"requested_amount,omitempty"`
	Checks                   ChecksResponse        `json:"checks"`
	Restrictions             []RestrictionResponse `json:"restrictions"`
	Config                   ConfigResponse        `json:"config"`
}

type AdvanceResponse struct {
	ID                   string           `json:"id"`
	DriverID             string           `json:"driver_id"`
	RequestDate          string           `json:"request_date"`
	RequestedAmount      decimal.Decimal  `json:"requested_amount"`
	ApprovedAmount       *decimal.Decimal `json:"approved_amount,omitempty"`
	Reason               *string          `json:"reason,omitempty"`
	Status               Status           `json:"status"`
	ApprovedBy           *string          `json:"approved_by,omitempty"`
	ApprovedAt           *string          `json:"approved_at,omitempty"`
	RejectionReason      *string          `json:"rejection_reason,omitempty"`
	OverrodeMonthlyLimit bool             `json:"overrode_monthly_limit"`
	PaidAt               *string          `json:"paid_at,omitempty"`
	SettledAt            *string          `json:"settled_at,omitempty"`
	SettlementYear       *int             `json:"settlement_year,omitempty"`
	SettlementMonth      *int             `json:"settlement_month,omitempty"`
}
