package advance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/service/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDriverID = "driver-1"

type advanceTestEnv struct {
	svc       *AdvanceServiceImpl
	repo      *memAdvanceRepo
	configs   *fakeAdvanceConfigRepository
	payroll   *fakePayrollConfigRepository
	shifts    *fakeShiftRepository
	publisher *recordingPublisher
	now       time.Time
}

func newAdvanceTestEnv(t *testing.T) *advanceTestEnv {
	t.Helper()

	env := &advanceTestEnv{
		repo:    newMemAdvanceRepo(),
		configs: &fakeAdvanceConfigRepository{},
		payroll: &fakePayrollConfigRepository{
			getCurrentFn: func(context.Context, time.Time) (payroll.Config, error) {
				return payroll.Config{MonthlySalary: 27000, OvertimeRate: 100, FuelAllowance: 33.30, WorkingHours: 8}, nil
			},
		},
		shifts:    &fakeShiftRepository{completed: 12},
		publisher: &recordingPublisher{},
		now:       time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	}

	svc := NewAdvanceService(
		passthroughTx{},
		env.repo,
		env.configs,
		env.payroll,
		env.shifts,
		lock.NewLocalLocker(),
		env.publisher,
		worktime.NewClassifier(worktime.DefaultWindow()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		25,
	).(*AdvanceServiceImpl)
	svc.now = func() time.Time { return env.now }
	env.svc = svc
	return env
}

func (env *advanceTestEnv) seed(t *testing.T, a advance.Advance) advance.Advance {
	t.Helper()
	if a.DriverID == "" {
		a.DriverID = testDriverID
	}
	created, err := env.repo.Create(context.Background(), a)
	require.NoError(t, err)
	return created
}

// ===== ELIGIBILITY =====

func TestAdvanceService_CalculateEligibility(t *testing.T) {
	env := newAdvanceTestEnv(t)
	approved := 4000.0
	env.seed(t, advance.Advance{RequestDate: env.now.AddDate(0, -1, 0), RequestedAmount: 5000, ApprovedAmount: &approved, Status: advance.StatusPaid})
	env.seed(t, advance.Advance{RequestDate: env.now.AddDate(0, 0, -2), RequestedAmount: 1000, Status: advance.StatusPending})
	env.seed(t, advance.Advance{RequestDate: env.now.AddDate(0, -2, 0), RequestedAmount: 3000, Status: advance.StatusSettled})

	resp, err := env.svc.CalculateEligibility(context.Background(), testDriverID, ptr(2000.0))
	require.NoError(t, err)

	assert.True(t, resp.Eligible)
	assert.Equal(t, "27832.50", resp.MonthlyEarningsEstimate.StringFixed(2))
	assert.Equal(t, "16699.50", resp.MaxAdvanceLimit.StringFixed(2))
	assert.Equal(t, "4000.00", resp.OutstandingAmount.StringFixed(2))
	assert.Equal(t, "12699.50", resp.AvailableAmount.StringFixed(2))
	assert.Equal(t, "12699.50", resp.MaxAdvanceAmount.StringFixed(2))
	assert.Equal(t, 1, resp.CurrentMonthRequestCount)
	assert.Empty(t, resp.Restrictions)
	assert.Equal(t, "60.00", resp.Config.MaxAdvancePercentage.StringFixed(2))
}

func TestAdvanceService_CalculateEligibility_NoPayrollConfig(t *testing.T) {
	env := newAdvanceTestEnv(t)
	env.payroll.getCurrentFn = nil

	resp, err := env.svc.CalculateEligibility(context.Background(), testDriverID, nil)
	require.NoError(t, err)

	assert.False(t, resp.Eligible)
	assert.False(t, resp.Checks.HasEarningsHistory)
	assert.True(t, resp.MonthlyEarningsEstimate.IsZero())
	assert.Equal(t, advance.RestrictionNoEarningsHistory, resp.Restrictions[0].Code)
}

func TestAdvanceService_CalculateEligibility_NoCompletedShifts(t *testing.T) {
	env := newAdvanceTestEnv(t)
	env.shifts.completed = 0

	resp, err := env.svc.CalculateEligibility(context.Background(), testDriverID, nil)
	require.NoError(t, err)
	assert.False(t, resp.Eligible)
	assert.False(t, resp.Checks.HasEarningsHistory)
}

func TestAdvanceService_CalculateEligibility_PayrollStoreError(t *testing.T) {
	env := newAdvanceTestEnv(t)
	env.payroll.getCurrentFn = func(context.Context, time.Time) (payroll.Config, error) {
		return payroll.Config{}, errors.New("timeout")
	}

	_, err := env.svc.CalculateEligibility(context.Background(), testDriverID, nil)
	assert.Error(t, err)
}

func TestAdvanceService_CalculateEligibility_InvalidAmount(t *testing.T) {
	env := newAdvanceTestEnv(t)

	_, err := env.svc.CalculateEligibility(context.Background(), testDriverID, ptr(-5.0))
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAdvanceService_CalculateEligibility_NonFiniteAmount(t *testing.T) {
	env := newAdvanceTestEnv(t)

	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.NotPanics(t, func() {
			_, err := env.svc.CalculateEligibility(context.Background(), testDriverID, ptr(amount))
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

// ===== REQUEST =====

func TestAdvanceService_RequestAdvance_Success(t *testing.T) {
	env := newAdvanceTestEnv(t)

	resp, err := env.svc.RequestAdvance(context.Background(), advance.RequestAdvanceRequest{
		DriverID: testDriverID,
		Amount:   ptr(3000.0),
		Reason:   ptr("school fees"),
	})
	require.NoError(t, err)

	assert.Equal(t, advance.StatusPending, resp.Status)
	assert.Equal(t, "3000.00", resp.RequestedAmount.StringFixed(2))
	assert.Equal(t, "2026-03-10T09:00:00Z", resp.RequestDate)
	assert.Equal(t, []string{"advance.requested"}, env.publisher.types)
}

func TestAdvanceService_RequestAdvance_NonFiniteAmount(t *testing.T) {
	env := newAdvanceTestEnv(t)

	_, err := env.svc.RequestAdvance(context.Background(), advance.RequestAdvanceRequest{
		DriverID: testDriverID,
		Amount:   ptr(math.NaN()),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "amount", verrs[0].Field)
	assert.Empty(t, env.publisher.types)
}

func TestAdvanceService_RequestAdvance_MonthlyLimit(t *testing.T) {
	env := newAdvanceTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.svc.RequestAdvance(ctx, advance.RequestAdvanceRequest{DriverID: testDriverID, Amount: ptr(500.0)})
		require.NoError(t, err)
	}

	_, err := env.svc.RequestAdvance(ctx, advance.RequestAdvanceRequest{DriverID: testDriverID, Amount: ptr(500.0)})
	require.ErrorIs(t, err, advance.ErrNotEligible)

	var notEligible *advance.NotEligibleError
	require.True(t, errors.As(err, &notEligible))
	require.Len(t, notEligible.Restrictions, 1)
	assert.Equal(t, advance.RestrictionMonthlyLimitReached, notEligible.Restrictions[0].Code)
	assert.Equal(t, 3.0, notEligible.Restrictions[0].Limit)
}

func TestAdvanceService_RequestAdvance_ExceedsAvailable(t *testing.T) {
	env := newAdvanceTestEnv(t)

	_, err := env.svc.RequestAdvance(context.Background(), advance.RequestAdvanceRequest{DriverID: testDriverID, Amount: ptr(17000.0)})
	assert.ErrorIs(t, err, advance.ErrNotEligible)

	advances, err := env.svc.ListDriverAdvances(context.Background(), testDriverID)
	require.NoError(t, err)
	assert.Empty(t, advances)
}

// ===== APPROVAL =====

func TestAdvanceService_ApproveAdvance_DefaultsToRequestedAmount(t *testing.T) {
	env := newAdvanceTestEnv(t)
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 5000, Status: advance.StatusPending})

	resp, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, advance.StatusApproved, resp.Status)
	assert.Equal(t, "5000.00", resp.ApprovedAmount.StringFixed(2))
	assert.Equal(t, "admin-1", *resp.ApprovedBy)
	assert.False(t, resp.OverrodeMonthlyLimit)

	elig, err := env.svc.CalculateEligibility(context.Background(), testDriverID, nil)
	require.NoError(t, err)
	assert.Equal(t, "11699.50", elig.AvailableAmount.StringFixed(2))
}

func TestAdvanceService_ApproveAdvance_MonthlyLimitOverride(t *testing.T) {
	env := newAdvanceTestEnv(t)
	for i := 0; i < 3; i++ {
		env.seed(t, advance.Advance{RequestDate: env.now.Add(-time.Duration(i+1) * time.Hour), RequestedAmount: 500, Status: advance.StatusRejected})
	}
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 1000, Status: advance.StatusPending})

	_, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1"})
	require.ErrorIs(t, err, advance.ErrNotEligible)

	resp, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1", OverrideMonthlyLimit: true})
	require.NoError(t, err)
	assert.True(t, resp.OverrodeMonthlyLimit)
	assert.Equal(t, advance.StatusApproved, resp.Status)
}

func TestAdvanceService_ApproveAdvance_OverrideCannotExceedAvailable(t *testing.T) {
	env := newAdvanceTestEnv(t)
	for i := 0; i < 3; i++ {
		env.seed(t, advance.Advance{RequestDate: env.now.Add(-time.Duration(i+1) * time.Hour), RequestedAmount: 500, Status: advance.StatusRejected})
	}
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 1000, Status: advance.StatusPending})

	_, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{
		ID:                   pending.ID,
		AdminID:              "admin-1",
		ApprovedAmount:       ptr(18000.0),
		OverrideMonthlyLimit: true,
	})
	var notEligible *advance.NotEligibleError
	require.ErrorAs(t, err, &notEligible)

	stored, err := env.repo.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, advance.StatusPending, stored.Status)
}

func TestAdvanceService_ApproveAdvance_OwnRequestNotCounted(t *testing.T) {
	env := newAdvanceTestEnv(t)
	for i := 0; i < 2; i++ {
		env.seed(t, advance.Advance{RequestDate: env.now.Add(-time.Duration(i+1) * time.Hour), RequestedAmount: 500, Status: advance.StatusRejected})
	}
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 1000, Status: advance.StatusPending})

	resp, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1"})
	require.NoError(t, err)
	assert.False(t, resp.OverrodeMonthlyLimit)
}

// ===== LIFECYCLE =====

func TestAdvanceService_Lifecycle(t *testing.T) {
	env := newAdvanceTestEnv(t)
	ctx := context.Background()
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 2000, Status: advance.StatusPending})

	_, err := env.svc.MarkPaid(ctx, pending.ID, "admin-1")
	assert.ErrorIs(t, err, advance.ErrInvalidStatusTransition)

	_, err = env.svc.ApproveAdvance(ctx, advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1", ApprovedAmount: ptr(1500.0)})
	require.NoError(t, err)

	paid, err := env.svc.MarkPaid(ctx, pending.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, advance.StatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	settled, err := env.svc.SettleAdvance(ctx, advance.SettleAdvanceRequest{ID: pending.ID, AdminID: "admin-1", Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, advance.StatusSettled, settled.Status)
	assert.Equal(t, 3, *settled.SettlementMonth)

	forPeriod, err := env.repo.ListSettledForPeriod(ctx, testDriverID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, forPeriod, 1)
	assert.Equal(t, 1500.0, forPeriod[0].OutstandingAmount())

	_, err = env.svc.SettleAdvance(ctx, advance.SettleAdvanceRequest{ID: pending.ID, AdminID: "admin-1", Year: 2026, Month: 3})
	assert.ErrorIs(t, err, advance.ErrInvalidStatusTransition)

	assert.Equal(t, []string{"advance.approved", "advance.paid", "advance.settled"}, env.publisher.types)
}

func TestAdvanceService_RejectAdvance(t *testing.T) {
	env := newAdvanceTestEnv(t)
	ctx := context.Background()
	pending := env.seed(t, advance.Advance{RequestDate: env.now, RequestedAmount: 2000, Status: advance.StatusPending})

	_, err := env.svc.RejectAdvance(ctx, advance.RejectAdvanceRequest{ID: pending.ID, AdminID: "admin-1"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	resp, err := env.svc.RejectAdvance(ctx, advance.RejectAdvanceRequest{ID: pending.ID, AdminID: "admin-1", Reason: "too frequent"})
	require.NoError(t, err)
	assert.Equal(t, advance.StatusRejected, resp.Status)
	assert.Equal(t, "too frequent", *resp.RejectionReason)

	_, err = env.svc.ApproveAdvance(ctx, advance.ApproveAdvanceRequest{ID: pending.ID, AdminID: "admin-1"})
	assert.ErrorIs(t, err, advance.ErrInvalidStatusTransition)
}

func TestAdvanceService_ApproveAdvance_NotFound(t *testing.T) {
	env := newAdvanceTestEnv(t)

	_, err := env.svc.ApproveAdvance(context.Background(), advance.ApproveAdvanceRequest{ID: "7f1c8d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f", AdminID: "admin-1"})
	assert.ErrorIs(t, err, advance.ErrAdvanceNotFound)
}

// ===== CONFIG =====

func TestAdvanceService_UpdateConfig(t *testing.T) {
	env := newAdvanceTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.UpdateConfig(ctx, advance.UpdateConfigRequest{UpdatedBy: "admin-1", MaxAdvancePercentage: ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, "50.00", resp.MaxAdvancePercentage.StringFixed(2))
	assert.Equal(t, 3, resp.MaxRequestsPerMonth)

	elig, err := env.svc.CalculateEligibility(ctx, testDriverID, nil)
	require.NoError(t, err)
	assert.Equal(t, "13916.25", elig.MaxAdvanceLimit.StringFixed(2))

	_, err = env.svc.UpdateConfig(ctx, advance.UpdateConfigRequest{MinAdvanceAmount: ptr(25000.0)})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Len(t, env.configs.versions, 1)
}
