package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
)

// ShiftJobs watches for shifts that were never clocked out. It only reports;
// closing a forgotten shift is an admin correction.
type ShiftJobs struct {
	shiftRepo    shift.ShiftRepository
	logger       *slog.Logger
	interval     time.Duration
	maxOpenShift time.Duration
	now          func() time.Time
}

func NewShiftJobs(shiftRepo shift.ShiftRepository, logger *slog.Logger, interval, maxOpenShift time.Duration) *ShiftJobs {
	return &ShiftJobs{
		shiftRepo:    shiftRepo,
		logger:       logger,
		interval:     interval,
		maxOpenShift: maxOpenShift,
		now:          time.Now,
	}
}

func (j *ShiftJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("report_long_open_shifts", j.interval, j.ReportLongOpenShifts)
}

// ReportLongOpenShifts logs every active shift older than the configured
// maximum.
func (j *ShiftJobs) ReportLongOpenShifts(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.maxOpenShift)

	shifts, err := j.shiftRepo.ListActiveStartedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list long open shifts: %w", err)
	}

	for _, s := range shifts {
		attrs := []any{
			"shift_id", s.ID,
			"driver_id", s.DriverID,
			"clock_in_time", s.ClockInTime,
			"open_for", now.Sub(s.ClockInTime).Round(time.Minute).String(),
		}
		if s.DriverName != nil {
			attrs = append(attrs, "driver_name", *s.DriverName)
		}
		j.logger.Warn("Shift open longer than allowed", attrs...)
	}

	if len(shifts) > 0 {
		j.logger.Info("Cron: long open shift check finished", "count", len(shifts), "cutoff", cutoff)
	}
	return nil
}
