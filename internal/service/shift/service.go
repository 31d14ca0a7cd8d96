package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/lock"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/money"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/service/worktime"
)

type ShiftServiceImpl struct {
	tx         database.Transactor
	shiftRepo  shift.ShiftRepository
	auditRepo  shift.AuditRepository
	driverRepo driver.DriverRepository
	locker     lock.Locker
	publisher  events.Publisher
	classifier *worktime.Classifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewShiftService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	auditRepo shift.AuditRepository,
	driverRepo driver.DriverRepository,
	locker lock.Locker,
	publisher events.Publisher,
	classifier *worktime.Classifier,
	logger *slog.Logger,
) shift.ShiftService {
	return &ShiftServiceImpl{
		tx:         tx,
		shiftRepo:  shiftRepo,
		auditRepo:  auditRepo,
		driverRepo: driverRepo,
		locker:     locker,
		publisher:  publisher,
		classifier: classifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ========== CLOCK IN / OUT ==========

func (s *ShiftServiceImpl) ClockIn(ctx context.Context, req shift.ClockInRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	release, err := s.acquire(ctx, req.DriverID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	defer s.release(ctx, release, req.DriverID)

	var created shift.Shift
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		drv, err := s.driverRepo.GetByID(ctx, req.DriverID)
		if err != nil {
			return err
		}
		if !drv.IsActive {
			return driver.ErrDriverInactive
		}

		active, err := s.shiftRepo.GetActiveByDriver(ctx, req.DriverID)
		if err != nil {
			return fmt.Errorf("failed to get active shift: %w", err)
		}
		if active != nil {
			return shift.ErrActiveShiftExists
		}

		last, err := s.shiftRepo.GetLastCompletedByDriver(ctx, req.DriverID)
		if err != nil {
			return fmt.Errorf("failed to get last completed shift: %w", err)
		}
		if last != nil && last.EndOdometer != nil && *req.StartOdometer < *last.EndOdometer {
			return &shift.OdometerRegressionError{Reading: *req.StartOdometer, Minimum: *last.EndOdometer}
		}

		created, err = s.shiftRepo.Create(ctx, shift.Shift{
			DriverID:      req.DriverID,
			ClockInTime:   s.now().UTC(),
			StartOdometer: *req.StartOdometer,
			Status:        shift.StatusActive,
		})
		return err
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.logger.Info("driver clocked in",
		slog.String("driver_id", created.DriverID),
		slog.String("shift_id", created.ID),
		slog.Int64("start_odometer", created.StartOdometer),
	)
	s.publish(ctx, events.TypeShiftClockedIn, created)

	return s.toResponse(created), nil
}

func (s *ShiftServiceImpl) ClockOut(ctx context.Context, req shift.ClockOutRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	release, err := s.acquire(ctx, req.DriverID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	defer s.release(ctx, release, req.DriverID)

	var completed shift.Shift
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.shiftRepo.GetActiveByDriver(ctx, req.DriverID)
		if err != nil {
			return fmt.Errorf("failed to get active shift: %w", err)
		}
		if active == nil {
			return shift.ErrNoActiveShift
		}
		if *req.EndOdometer < active.StartOdometer {
			return &shift.OdometerRegressionError{Reading: *req.EndOdometer, Minimum: active.StartOdometer}
		}

		now := s.now().UTC()
		if !now.After(active.ClockInTime) {
			return shift.ErrInvalidClockOut
		}

		completed = *active
		completed.Complete(*req.EndOdometer, now)
		if err := s.shiftRepo.Update(ctx, completed); err != nil {
			return fmt.Errorf("failed to complete shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.logger.Info("driver clocked out",
		slog.String("driver_id", completed.DriverID),
		slog.String("shift_id", completed.ID),
		slog.Int64("total_distance", *completed.TotalDistance),
		slog.Int("duration_minutes", *completed.DurationMinutes),
	)
	s.publish(ctx, events.TypeShiftClockedOut, completed)

	return s.toResponse(completed), nil
}

// ========== QUERIES ==========

func (s *ShiftServiceImpl) GetDriverStatus(ctx context.Context, driverID string) (shift.DriverStatusResponse, error) {
	if validator.IsEmpty(driverID) {
		return shift.DriverStatusResponse{}, validator.ValidationErrors{{Field: "driver_id", Message: "is required"}}
	}

	active, err := s.shiftRepo.GetActiveByDriver(ctx, driverID)
	if err != nil {
		return shift.DriverStatusResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	from, to := s.classifier.DayRange(s.now())
	count, err := s.shiftRepo.CountByDriverBetween(ctx, driverID, from, to)
	if err != nil {
		return shift.DriverStatusResponse{}, fmt.Errorf("failed to count today's shifts: %w", err)
	}

	resp := shift.DriverStatusResponse{
		HasActiveShift:  active != nil,
		TodayShiftCount: count,
	}
	if active != nil {
		current := s.toResponse(*active)
		resp.CurrentShift = &current
	}
	return resp, nil
}

func (s *ShiftServiceImpl) ListDriverShifts(ctx context.Context, driverID string, year, month int) (shift.MonthlyShiftsResponse, error) {
	if !validator.IsValidPeriod(year, month, s.now()) {
		return shift.MonthlyShiftsResponse{}, validator.ValidationErrors{{Field: "period", Message: "year or month out of range"}}
	}

	from, to := s.classifier.MonthRange(year, month)
	shifts, err := s.shiftRepo.ListByDriverBetween(ctx, driverID, from, to)
	if err != nil {
		return shift.MonthlyShiftsResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	resp := shift.MonthlyShiftsResponse{
		DriverID: driverID,
		Year:     year,
		Month:    month,
		Shifts:   make([]shift.ShiftResponse, 0, len(shifts)),
	}
	for _, sh := range shifts {
		resp.Shifts = append(resp.Shifts, s.toResponse(sh))
	}

	sum := s.classifier.Summarize(shifts)
	resp.Summary = shift.WorkSummaryResponse{
		WorkingDays:   sum.WorkingDays,
		TotalHours:    money.Hours(sum.TotalHours),
		RegularHours:  money.Hours(sum.RegularHours),
		OvertimeHours: money.Hours(sum.OvertimeHours),
		TotalDistance: sum.TotalDistance,
	}
	return resp, nil
}

// ========== ADMIN CORRECTION ==========

func (s *ShiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	existing, err := s.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	release, err := s.acquire(ctx, existing.DriverID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	defer s.release(ctx, release, existing.DriverID)

	var updated shift.Shift
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.shiftRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if before.IsActive() {
			return shift.ErrShiftStillActive
		}

		updated, err = applyUpdate(before, req)
		if err != nil {
			return err
		}

		prev, next, err := s.shiftRepo.GetNeighbours(ctx, updated.DriverID, updated.ClockInTime, updated.ID)
		if err != nil {
			return fmt.Errorf("failed to get neighbouring shifts: %w", err)
		}
		if prev != nil && prev.EndOdometer != nil && updated.StartOdometer < *prev.EndOdometer {
			return &shift.OdometerRegressionError{Reading: updated.StartOdometer, Minimum: *prev.EndOdometer}
		}
		if next != nil && next.StartOdometer < *updated.EndOdometer {
			return &shift.OdometerRegressionError{Reading: next.StartOdometer, Minimum: *updated.EndOdometer}
		}

		if err := s.shiftRepo.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update shift: %w", err)
		}

		_, err = s.auditRepo.Create(ctx, shift.Audit{
			ShiftID:   updated.ID,
			ChangedBy: req.AdminID,
			Reason:    req.Reason,
			Before:    before,
			After:     updated,
		})
		if err != nil {
			return fmt.Errorf("failed to write shift audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.logger.Info("shift adjusted",
		slog.String("shift_id", updated.ID),
		slog.String("driver_id", updated.DriverID),
		slog.String("admin_id", req.AdminID),
	)
	s.publish(ctx, events.TypeShiftAdjusted, updated)

	return s.toResponse(updated), nil
}

// applyUpdate returns a copy of s with the request's fields applied and the
// derived distance and duration recomputed.
func applyUpdate(s shift.Shift, req shift.UpdateShiftRequest) (shift.Shift, error) {
	if s.ClockOutTime == nil || s.EndOdometer == nil {
		return shift.Shift{}, shift.ErrShiftStillActive
	}

	out := s
	clockOut := *s.ClockOutTime
	endOdometer := *s.EndOdometer

	if req.ClockInTime != nil {
		t, _ := validator.IsValidDateTime(*req.ClockInTime)
		out.ClockInTime = t.UTC()
	}
	if req.ClockOutTime != nil {
		t, _ := validator.IsValidDateTime(*req.ClockOutTime)
		clockOut = t.UTC()
	}
	if req.StartOdometer != nil {
		out.StartOdometer = *req.StartOdometer
	}
	if req.EndOdometer != nil {
		endOdometer = *req.EndOdometer
	}

	if endOdometer < out.StartOdometer {
		return shift.Shift{}, &shift.OdometerRegressionError{Reading: endOdometer, Minimum: out.StartOdometer}
	}
	if !clockOut.After(out.ClockInTime) {
		return shift.Shift{}, shift.ErrInvalidClockOut
	}

	out.Complete(endOdometer, clockOut)
	return out, nil
}

// ========== HELPERS ==========

func (s *ShiftServiceImpl) acquire(ctx context.Context, driverID string) (lock.ReleaseFunc, error) {
	release, err := s.locker.Acquire(ctx, lock.DriverKey(driverID))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire driver lock: %w", err)
	}
	return release, nil
}

func (s *ShiftServiceImpl) release(ctx context.Context, release lock.ReleaseFunc, driverID string) {
	if err := release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, lock.ErrNotAcquired) {
		s.logger.Warn("failed to release driver lock",
			slog.String("driver_id", driverID),
			slog.Any("error", err),
		)
	}
}

func (s *ShiftServiceImpl) publish(ctx context.Context, eventType string, sh shift.Shift) {
	err := s.publisher.Publish(ctx, events.Event{
		Topic:      events.TopicShiftLifecycle,
		Type:       eventType,
		Key:        sh.DriverID,
		OccurredAt: s.now().UTC(),
		Payload: events.ShiftEventPayload{
			ShiftID:       sh.ID,
			DriverID:      sh.DriverID,
			ClockInTime:   sh.ClockInTime,
			ClockOutTime:  sh.ClockOutTime,
			StartOdometer: sh.StartOdometer,
			EndOdometer:   sh.EndOdometer,
			Status:        string(sh.Status),
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish shift event",
			slog.String("event_type", eventType),
			slog.String("shift_id", sh.ID),
			slog.Any("error", err),
		)
	}
}

func (s *ShiftServiceImpl) toResponse(sh shift.Shift) shift.ShiftResponse {
	resp := shift.ShiftResponse{
		ID:              sh.ID,
		DriverID:        sh.DriverID,
		DriverName:      sh.DriverName,
		ClockInTime:     sh.ClockInTime.UTC().Format(time.RFC3339),
		StartOdometer:   sh.StartOdometer,
		EndOdometer:     sh.EndOdometer,
		TotalDistance:   sh.TotalDistance,
		DurationMinutes: sh.DurationMinutes,
		Status:          string(sh.Status),
	}
	if sh.ClockOutTime != nil {
		out := sh.ClockOutTime.UTC().Format(time.RFC3339)
		resp.ClockOutTime = &out
	}
	if split, ok := s.classifier.ClassifyShift(sh); ok {
		regular := money.Hours(split.RegularHours)
		overtime := money.Hours(split.OvertimeHours)
		resp.RegularHours = &regular
		resp.OvertimeHours = &overtime
	}
	return resp
}
