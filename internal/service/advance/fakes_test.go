package advance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/events"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAdvanceRepo struct {
	mu       sync.Mutex
	advances map[string]advance.Advance
}

func newMemAdvanceRepo() *memAdvanceRepo {
	return &memAdvanceRepo{advances: make(map[string]advance.Advance)}
}

func (r *memAdvanceRepo) filter(keep func(advance.Advance) bool) []advance.Advance {
	var out []advance.Advance
	for _, a := range r.advances {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestDate.After(out[j].RequestDate) })
	return out
}

func (r *memAdvanceRepo) Create(_ context.Context, a advance.Advance) (advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.advances[a.ID] = a
	return a, nil
}

func (r *memAdvanceRepo) GetByID(_ context.Context, id string) (advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.advances[id]
	if !ok {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	return a, nil
}

func (r *memAdvanceRepo) Update(_ context.Context, a advance.Advance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.advances[a.ID]; !ok {
		return advance.ErrAdvanceNotFound
	}
	r.advances[a.ID] = a
	return nil
}

func (r *memAdvanceRepo) ListByDriver(_ context.Context, driverID string) ([]advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a advance.Advance) bool { return a.DriverID == driverID }), nil
}

func (r *memAdvanceRepo) ListOutstandingByDriver(_ context.Context, driverID string) ([]advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a advance.Advance) bool { return a.DriverID == driverID && a.IsOutstanding() }), nil
}

func (r *memAdvanceRepo) CountRequestedBetween(_ context.Context, driverID string, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(a advance.Advance) bool {
		return a.DriverID == driverID && !a.RequestDate.Before(from) && a.RequestDate.Before(to)
	})), nil
}

func (r *memAdvanceRepo) ListSettledForPeriod(_ context.Context, driverID string, year, month int) ([]advance.Advance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a advance.Advance) bool {
		return a.DriverID == driverID && a.Status == advance.StatusSettled &&
			a.SettlementYear != nil && *a.SettlementYear == year &&
			a.SettlementMonth != nil && *a.SettlementMonth == month
	}), nil
}

type fakeAdvanceConfigRepository struct {
	versions []advance.Config
}

func (f *fakeAdvanceConfigRepository) GetCurrent(context.Context) (advance.Config, error) {
	if len(f.versions) == 0 {
		return advance.DefaultConfig(), nil
	}
	return f.versions[len(f.versions)-1], nil
}

func (f *fakeAdvanceConfigRepository) Create(_ context.Context, cfg advance.Config) (advance.Config, error) {
	cfg.ID = uuid.NewString()
	f.versions = append(f.versions, cfg)
	return cfg, nil
}

type fakePayrollConfigRepository struct {
	payroll.ConfigRepository
	getCurrentFn func(ctx context.Context, at time.Time) (payroll.Config, error)
}

func (f *fakePayrollConfigRepository) GetCurrent(ctx context.Context, at time.Time) (payroll.Config, error) {
	if f.getCurrentFn != nil {
		return f.getCurrentFn(ctx, at)
	}
	return payroll.Config{}, payroll.ErrConfigurationMissing
}

type fakeShiftRepository struct {
	shift.ShiftRepository
	completed int
}

func (f *fakeShiftRepository) CountCompletedByDriver(context.Context, string) (int, error) {
	return f.completed, nil
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
