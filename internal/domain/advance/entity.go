package advance

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
	StatusSettled  Status = "settled"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
	StatusPaid:     {StatusSettled},
}

// CanTransition reports whether an advance may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Advance is a salary advance request and its lifecycle.
type Advance struct {
	ID              string
	DriverID        string
	RequestDate     time.Time
	RequestedAmount float64
	ApprovedAmount  *float64
	Reason          *string
	Status          Status

	ApprovedBy           *string
	ApprovedAt           *time.Time
	RejectionReason      *string
	OverrodeMonthlyLimit bool
	PaidAt               *time.Time
	SettledAt            *time.Time
	SettlementYear       *int
	SettlementMonth      *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOutstanding reports whether the advance counts against the driver's
// available amount: approved or paid, and not yet settled.
func (a Advance) IsOutstanding() bool {
	return (a.Status == StatusApproved || a.Status == StatusPaid) && a.SettledAt == nil
}

// OutstandingAmount is the approved amount, falling back to the requested one.
func (a Advance) OutstandingAmount() float64 {
	if a.ApprovedAmount != nil {
		return *a.ApprovedAmount
	}
	return a.RequestedAmount
}

// Config holds the advance policy. Percentages are in [0, 100].
type Config struct {
	ID                   string
	MaxAdvancePercentage float64
	MaxRequestsPerMonth  int
	MinAdvanceAmount     float64
	MaxAdvanceAmount     float64
	UpdatedBy            *string
	CreatedAt            time.Time
}

// DefaultConfig is used when no policy row has been stored.
func DefaultConfig() Config {
	return Config{
		MaxAdvancePercentage: 60,
		MaxRequestsPerMonth:  3,
		MinAdvanceAmount:     500,
		MaxAdvanceAmount:     20000,
	}
}

// Restriction codes.
const (
	RestrictionNoEarningsHistory   = "NO_EARNINGS_HISTORY"
	RestrictionMonthlyLimitReached = "MONTHLY_LIMIT_REACHED"
	RestrictionExceedsAvailable    = "EXCEEDS_AVAILABLE_AMOUNT"
	RestrictionBelowMinimum        = "BELOW_MINIMUM_AMOUNT"
	RestrictionAboveMaximum        = "ABOVE_MAXIMUM_AMOUNT"
	RestrictionOutstandingLimit    = "OUTSTANDING_LIMIT_REACHED"
)

type Restriction struct {
	Code    string
	Message string
	Limit   float64
}

// Checks are the individual eligibility conditions. Amount checks are true
// when no amount was requested.
type Checks struct {
	HasEarningsHistory    bool
	WithinMonthlyLimit    bool
	WithinAvailableAmount bool
	AboveMinimumAmount    bool
	BelowMaximumAmount    bool
	BelowOutstandingLimit bool
}

// Eligibility is the full assessment for one driver at one instant.
type Eligibility struct {
	DriverID                 string
	Eligible                 bool
	MonthlyEarningsEstimate  float64
	MaxAdvanceLimit          float64
	OutstandingAmount        float64
	AvailableAmount          float64
	MaxAdvanceAmount         float64
	CurrentMonthRequestCount int
	RequestedAmount          *float64
	Checks                   Checks
	Restrictions             []Restriction
	Config                   Config
}

// HasOnly reports whether every restriction carries one of the given codes.
func (e Eligibility) HasOnly(codes ...string) bool {
	for _, r := range e.Restrictions {
		found := false
		for _, c := range codes {
			if r.Code == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
