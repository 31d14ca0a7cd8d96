package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/service/worktime"
)

type AdvanceServiceImpl struct {
	tx                 database.Transactor
	advanceRepo        advance.AdvanceRepository
	configRepo         advance.ConfigRepository
	payrollConfigRepo  payroll.ConfigRepository
	shiftRepo          shift.ShiftRepository
	locker             lock.Locker
	publisher          events.Publisher
	classifier         *worktime.Classifier
	logger             *slog.Logger
	assumedWorkingDays int
	now                func() time.Time
}

func NewAdvanceService(
	tx database.Transactor,
	advanceRepo advance.AdvanceRepository,
	configRepo advance.ConfigRepository,
	payrollConfigRepo payroll.ConfigRepository,
	shiftRepo shift.ShiftRepository,
	locker lock.Locker,
	publisher events.Publisher,
	classifier *worktime.Classifier,
	logger *slog.Logger,
	assumedWorkingDays int,
) advance.AdvanceService {
	return &AdvanceServiceImpl{
		tx:                 tx,
		advanceRepo:        advanceRepo,
		configRepo:         configRepo,
		payrollConfigRepo:  payrollConfigRepo,
		shiftRepo:          shiftRepo,
		locker:             locker,
		publisher:          publisher,
		classifier:         classifier,
		logger:             logger,
		assumedWorkingDays: assumedWorkingDays,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// ========== ELIGIBILITY ==========

func (s *AdvanceServiceImpl) CalculateEligibility(ctx context.Context, driverID string, requestedAmount *float64) (advance.EligibilityResponse, error) {
	if validator.IsEmpty(driverID) {
		return advance.EligibilityResponse{}, validator.ValidationErrors{{Field: "driver_id", Message: "is required"}}
	}
	if requestedAmount != nil && !validator.IsPositive(*requestedAmount) {
		return advance.EligibilityResponse{}, validator.ValidationErrors{{Field: "amount", Message: "must be positive"}}
	}

	e, err := s.eligibility(ctx, driverID, requestedAmount, "")
	if err != nil {
		return advance.EligibilityResponse{}, err
	}
	return toEligibilityResponse(e), nil
}

// eligibility gathers the inputs and evaluates them. excludeID leaves one
// advance out of the monthly request count.
func (s *AdvanceServiceImpl) eligibility(ctx context.Context, driverID string, requestedAmount *float64, excludeID string) (advance.Eligibility, error) {
	now := s.now()

	cfg, err := s.configRepo.GetCurrent(ctx)
	if err != nil {
		return advance.Eligibility{}, fmt.Errorf("failed to get advance config: %w", err)
	}

	var estimate float64
	hasHistory := false
	payrollCfg, err := s.payrollConfigRepo.GetCurrent(ctx, now)
	switch {
	case errors.Is(err, payroll.ErrConfigurationMissing):
	case err != nil:
		return advance.Eligibility{}, fmt.Errorf("failed to get payroll config: %w", err)
	default:
		estimate = EstimateMonthlyEarnings(payrollCfg, s.assumedWorkingDays)
		completed, err := s.shiftRepo.CountCompletedByDriver(ctx, driverID)
		if err != nil {
			return advance.Eligibility{}, fmt.Errorf("failed to count completed shifts: %w", err)
		}
		hasHistory = completed > 0
	}

	outstanding, err := s.advanceRepo.ListOutstandingByDriver(ctx, driverID)
	if err != nil {
		return advance.Eligibility{}, fmt.Errorf("failed to list outstanding advances: %w", err)
	}
	var outstandingAmount float64
	for _, a := range outstanding {
		if a.ID == excludeID {
			continue
		}
		outstandingAmount += a.OutstandingAmount()
	}

	local := now.In(s.classifier.Window().Location)
	from, to := s.classifier.MonthRange(local.Year(), int(local.Month()))
	count, err := s.advanceRepo.CountRequestedBetween(ctx, driverID, from, to)
	if err != nil {
		return advance.Eligibility{}, fmt.Errorf("failed to count advance requests: %w", err)
	}

	if excludeID != "" {
		excluded, err := s.advanceRepo.GetByID(ctx, excludeID)
		if err != nil {
			return advance.Eligibility{}, err
		}
		if !excluded.RequestDate.Before(from) && excluded.RequestDate.Before(to) {
			count--
		}
	}

	return Evaluate(EligibilityInput{
		DriverID:           driverID,
		Config:             cfg,
		MonthlyEstimate:    estimate,
		HasEarningsHistory: hasHistory,
		Outstanding:        outstandingAmount,
		MonthRequestCount:  max(0, count),
		RequestedAmount:    requestedAmount,
	}), nil
}

// ========== DRIVER REQUESTS ==========

func (s *AdvanceServiceImpl) RequestAdvance(ctx context.Context, req advance.RequestAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	release, err := s.locker.Acquire(ctx, lock.AdvanceKey(req.DriverID))
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to acquire advance lock: %w", err)
	}
	defer s.release(ctx, release, req.DriverID)

	var created advance.Advance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.eligibility(ctx, req.DriverID, req.Amount, "")
		if err != nil {
			return err
		}
		if !e.Eligible {
			return &advance.NotEligibleError{Restrictions: e.Restrictions}
		}

		created, err = s.advanceRepo.Create(ctx, advance.Advance{
			DriverID:        req.DriverID,
			RequestDate:     s.now(),
			RequestedAmount: *req.Amount,
			Reason:          req.Reason,
			Status:          advance.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create advance: %w", err)
		}
		return nil
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.logger.Info("advance requested",
		slog.String("advance_id", created.ID),
		slog.String("driver_id", created.DriverID),
		slog.Float64("amount", created.RequestedAmount),
	)
	s.publish(ctx, events.TypeAdvanceRequested, created, req.DriverID)

	return toAdvanceResponse(created), nil
}

func (s *AdvanceServiceImpl) ListDriverAdvances(ctx context.Context, driverID string) ([]advance.AdvanceResponse, error) {
	advances, err := s.advanceRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}

	result := make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		result = append(result, toAdvanceResponse(a))
	}
	return result, nil
}

// ========== ADMIN DECISIONS ==========

// ApproveAdvance re-evaluates eligibility for the approved amount. The admin
// may override the monthly request limit and nothing else.
func (s *AdvanceServiceImpl) ApproveAdvance(ctx context.Context, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	existing, err := s.advanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	release, err := s.locker.Acquire(ctx, lock.AdvanceKey(existing.DriverID))
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to acquire advance lock: %w", err)
	}
	defer s.release(ctx, release, existing.DriverID)

	var approved advance.Advance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.advanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !a.Status.CanTransition(advance.StatusApproved) {
			return fmt.Errorf("%w: %s to %s", advance.ErrInvalidStatusTransition, a.Status, advance.StatusApproved)
		}

		amount := a.RequestedAmount
		if req.ApprovedAmount != nil {
			amount = *req.ApprovedAmount
		}

		e, err := s.eligibility(ctx, a.DriverID, &amount, a.ID)
		if err != nil {
			return err
		}
		overrode := false
		if !e.Eligible {
			if !req.OverrideMonthlyLimit || !e.HasOnly(advance.RestrictionMonthlyLimitReached) {
				return &advance.NotEligibleError{Restrictions: e.Restrictions}
			}
			overrode = true
		}

		now := s.now()
		a.Status = advance.StatusApproved
		a.ApprovedAmount = &amount
		a.ApprovedBy = &req.AdminID
		a.ApprovedAt = &now
		a.OverrodeMonthlyLimit = overrode
		if err := s.advanceRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to approve advance: %w", err)
		}
		approved = a
		return nil
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.logger.Info("advance approved",
		slog.String("advance_id", approved.ID),
		slog.String("driver_id", approved.DriverID),
		slog.String("admin_id", req.AdminID),
		slog.Float64("approved_amount", *approved.ApprovedAmount),
		slog.Bool("overrode_monthly_limit", approved.OverrodeMonthlyLimit),
	)
	s.publish(ctx, events.TypeAdvanceApproved, approved, req.AdminID)

	return toAdvanceResponse(approved), nil
}

func (s *AdvanceServiceImpl) RejectAdvance(ctx context.Context, req advance.RejectAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	return s.transition(ctx, req.ID, advance.StatusRejected, req.AdminID, events.TypeAdvanceRejected, func(a *advance.Advance, _ time.Time) {
		a.RejectionReason = &req.Reason
	})
}

func (s *AdvanceServiceImpl) MarkPaid(ctx context.Context, id, adminID string) (advance.AdvanceResponse, error) {
	if !validator.IsValidUUID(id) {
		return advance.AdvanceResponse{}, validator.ValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
	}

	return s.transition(ctx, id, advance.StatusPaid, adminID, events.TypeAdvancePaid, func(a *advance.Advance, now time.Time) {
		a.PaidAt = &now
	})
}

func (s *AdvanceServiceImpl) SettleAdvance(ctx context.Context, req advance.SettleAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return advance.AdvanceResponse{}, err
	}

	return s.transition(ctx, req.ID, advance.StatusSettled, req.AdminID, events.TypeAdvanceSettled, func(a *advance.Advance, now time.Time) {
		a.SettledAt = &now
		a.SettlementYear = &req.Year
		a.SettlementMonth = &req.Month
	})
}

// transition moves an advance to next inside a transaction after checking the
// status machine, then applies mutate.
func (s *AdvanceServiceImpl) transition(
	ctx context.Context,
	id string,
	next advance.Status,
	actorID string,
	eventType string,
	mutate func(a *advance.Advance, now time.Time),
) (advance.AdvanceResponse, error) {
	var updated advance.Advance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.advanceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !a.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s to %s", advance.ErrInvalidStatusTransition, a.Status, next)
		}

		a.Status = next
		mutate(&a, s.now())
		if err := s.advanceRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update advance: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.logger.Info("advance status changed",
		slog.String("advance_id", updated.ID),
		slog.String("status", string(updated.Status)),
		slog.String("actor_id", actorID),
	)
	s.publish(ctx, eventType, updated, actorID)

	return toAdvanceResponse(updated), nil
}

// ========== CONFIG ==========

func (s *AdvanceServiceImpl) GetConfig(ctx context.Context) (advance.ConfigResponse, error) {
	cfg, err := s.configRepo.GetCurrent(ctx)
	if err != nil {
		return advance.ConfigResponse{}, fmt.Errorf("failed to get advance config: %w", err)
	}
	return toConfigResponse(cfg), nil
}

func (s *AdvanceServiceImpl) UpdateConfig(ctx context.Context, req advance.UpdateConfigRequest) (advance.ConfigResponse, error) {
	current, err := s.configRepo.GetCurrent(ctx)
	if err != nil {
		return advance.ConfigResponse{}, fmt.Errorf("failed to get advance config: %w", err)
	}
	if err := req.Validate(current); err != nil {
		return advance.ConfigResponse{}, err
	}

	created, err := s.configRepo.Create(ctx, req.Apply(current))
	if err != nil {
		return advance.ConfigResponse{}, fmt.Errorf("failed to save advance config: %w", err)
	}

	s.logger.Info("advance config updated", slog.String("config_id", created.ID))
	return toConfigResponse(created), nil
}

// ========== HELPERS ==========

func (s *AdvanceServiceImpl) release(ctx context.Context, release lock.ReleaseFunc, driverID string) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to release advance lock",
			slog.String("driver_id", driverID),
			slog.Any("error", err),
		)
	}
}

func (s *AdvanceServiceImpl) publish(ctx context.Context, eventType string, a advance.Advance, actorID string) {
	err := s.publisher.Publish(ctx, events.Event{
		Topic:      events.TopicAdvanceLifecycle,
		Type:       eventType,
		Key:        a.DriverID,
		OccurredAt: s.now(),
		Payload: events.AdvanceEventPayload{
			AdvanceID:       a.ID,
			DriverID:        a.DriverID,
			RequestedAmount: a.RequestedAmount,
			ApprovedAmount:  a.ApprovedAmount,
			Status:          string(a.Status),
			ActorID:         actorID,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish advance event",
			slog.String("event_type", eventType),
			slog.String("advance_id", a.ID),
			slog.Any("error", err),
		)
	}
}
