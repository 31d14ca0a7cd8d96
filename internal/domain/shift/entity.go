package shift

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Shift is one clock-in to clock-out work session. All instants are UTC.
type Shift struct {
	ID              string
	DriverID        string
	ClockInTime     time.Time
	ClockOutTime    *time.Time
	StartOdometer   int64
	EndOdometer     *int64
	TotalDistance   *int64
	DurationMinutes *int
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined
	DriverName *string
}

func (s Shift) IsActive() bool {
	return s.Status == StatusActive
}

// Complete fills the clock-out side of the shift. Callers validate the
// odometer and instant ordering first.
func (s *Shift) Complete(endOdometer int64, clockOut time.Time) {
	clockOut = clockOut.UTC()
	distance := endOdometer - s.StartOdometer
	duration := durationMinutes(s.ClockInTime, clockOut)

	s.ClockOutTime = &clockOut
	s.EndOdometer = &endOdometer
	s.TotalDistance = &distance
	s.DurationMinutes = &duration
	s.Status = StatusCompleted
}

func durationMinutes(from, to time.Time) int {
	return int(to.Sub(from).Round(time.Minute) / time.Minute)
}

// Audit records an administrative change to a shift.
type Audit struct {
	ID        string
	ShiftID   string
	ChangedBy string
	Reason    string
	Before    Shift
	After     Shift
	CreatedAt time.Time
}
