package cron

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftRepository struct {
	shift.ShiftRepository

	listActiveStartedBeforeFn func(ctx context.Context, cutoff time.Time) ([]shift.Shift, error)
}

func (f *fakeShiftRepository) ListActiveStartedBefore(ctx context.Context, cutoff time.Time) ([]shift.Shift, error) {
	return f.listActiveStartedBeforeFn(ctx, cutoff)
}

func TestShiftJobs_ReportLongOpenShifts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	name := "Ravi Kumar"
	var gotCutoff time.Time
	repo := &fakeShiftRepository{
		listActiveStartedBeforeFn: func(ctx context.Context, cutoff time.Time) ([]shift.Shift, error) {
			gotCutoff = cutoff
			return []shift.Shift{{
				ID:          "s1",
				DriverID:    "d1",
				DriverName:  &name,
				ClockInTime: now.Add(-20 * time.Hour),
				Status:      shift.StatusActive,
			}}, nil
		},
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	jobs := NewShiftJobs(repo, logger, 30*time.Minute, 16*time.Hour)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.ReportLongOpenShifts(context.Background()))

	assert.Equal(t, now.Add(-16*time.Hour), gotCutoff)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "shift_id=s1")
	assert.Contains(t, buf.String(), "open_for=20h0m0s")
}

func TestShiftJobs_ReportLongOpenShifts_RepositoryError(t *testing.T) {
	repo := &fakeShiftRepository{
		listActiveStartedBeforeFn: func(ctx context.Context, cutoff time.Time) ([]shift.Shift, error) {
			return nil, errors.New("connection refused")
		},
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	jobs := NewShiftJobs(repo, logger, time.Minute, time.Hour)

	err := jobs.ReportLongOpenShifts(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestScheduler_RunsJobUntilStopped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s := NewScheduler(context.Background(), logger)

	var runs atomic.Int32
	s.AddJob("count", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_RunOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s := NewScheduler(context.Background(), logger)

	var runs atomic.Int32
	s.AddJob("once", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), runs.Load())
}
