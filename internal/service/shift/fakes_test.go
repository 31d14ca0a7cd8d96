package shift

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/events"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDriverRepo struct {
	drivers map[string]driver.Driver
}

func (f *fakeDriverRepo) GetByID(_ context.Context, id string) (driver.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return d, nil
}

func (f *fakeDriverRepo) ListActive(context.Context) ([]driver.Driver, error) {
	var out []driver.Driver
	for _, d := range f.drivers {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

// memShiftRepo enforces one active shift per driver like the partial unique index.
type memShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]shift.Shift
}

func newMemShiftRepo(seed ...shift.Shift) *memShiftRepo {
	r := &memShiftRepo{shifts: make(map[string]shift.Shift)}
	for _, s := range seed {
		r.shifts[s.ID] = s
	}
	return r
}

func (r *memShiftRepo) sorted(filter func(shift.Shift) bool) []shift.Shift {
	var out []shift.Shift
	for _, s := range r.shifts {
		if filter(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockInTime.Before(out[j].ClockInTime) })
	return out
}

func (r *memShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.shifts {
		if existing.DriverID == s.DriverID && existing.IsActive() {
			return shift.Shift{}, shift.ErrActiveShiftExists
		}
	}
	s.ID = uuid.NewString()
	r.shifts[s.ID] = s
	return s, nil
}

func (r *memShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *memShiftRepo) GetActiveByDriver(_ context.Context, driverID string) (*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.DriverID == driverID && s.IsActive() {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memShiftRepo) GetLastCompletedByDriver(_ context.Context, driverID string) (*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sorted(func(s shift.Shift) bool { return s.DriverID == driverID && !s.IsActive() })
	if len(list) == 0 {
		return nil, nil
	}
	return &list[len(list)-1], nil
}

func (r *memShiftRepo) GetNeighbours(_ context.Context, driverID string, clockIn time.Time, excludeID string) (*shift.Shift, *shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prev, next *shift.Shift
	for _, s := range r.sorted(func(s shift.Shift) bool { return s.DriverID == driverID && s.ID != excludeID }) {
		if s.ClockInTime.Before(clockIn) {
			prev = &s
		} else if next == nil {
			next = &s
		}
	}
	return prev, next, nil
}

func (r *memShiftRepo) Update(_ context.Context, s shift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[s.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	r.shifts[s.ID] = s
	return nil
}

func (r *memShiftRepo) between(driverID string, from, to time.Time, completedOnly bool) []shift.Shift {
	return r.sorted(func(s shift.Shift) bool {
		return s.DriverID == driverID &&
			!s.ClockInTime.Before(from) && s.ClockInTime.Before(to) &&
			(!completedOnly || !s.IsActive())
	})
}

func (r *memShiftRepo) ListByDriverBetween(_ context.Context, driverID string, from, to time.Time) ([]shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.between(driverID, from, to, false), nil
}

func (r *memShiftRepo) ListCompletedByDriverBetween(_ context.Context, driverID string, from, to time.Time) ([]shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.between(driverID, from, to, true), nil
}

func (r *memShiftRepo) CountByDriverBetween(_ context.Context, driverID string, from, to time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.between(driverID, from, to, false)), nil
}

func (r *memShiftRepo) CountCompletedByDriver(_ context.Context, driverID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sorted(func(s shift.Shift) bool { return s.DriverID == driverID && !s.IsActive() })), nil
}

func (r *memShiftRepo) ListActiveStartedBefore(_ context.Context, cutoff time.Time) ([]shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(s shift.Shift) bool { return s.IsActive() && s.ClockInTime.Before(cutoff) }), nil
}

type memAuditRepo struct {
	audits []shift.Audit
}

func (r *memAuditRepo) Create(_ context.Context, a shift.Audit) (shift.Audit, error) {
	a.ID = uuid.NewString()
	r.audits = append(r.audits, a)
	return a, nil
}

func (r *memAuditRepo) ListByShift(_ context.Context, shiftID string) ([]shift.Audit, error) {
	var out []shift.Audit
	for _, a := range r.audits {
		if a.ShiftID == shiftID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
