package worktime

import (
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
)

// Window is the standard working window in fractional local hours.
type Window struct {
	Start    float64
	End      float64
	Location *time.Location
}

func DefaultWindow() Window {
	return Window{Start: 8, End: 20, Location: time.UTC}
}

// Split is the regular/overtime classification of one shift.
type Split struct {
	TotalHours    float64
	RegularHours  float64
	OvertimeHours float64
}

// Summary aggregates completed shifts. RegularHours is derived from the
// totals, not summed per shift.
type Summary struct {
	WorkingDays   int
	TotalHours    float64
	RegularHours  float64
	OvertimeHours float64
	TotalDistance int64
}

type Classifier struct {
	window Window
}

func NewClassifier(window Window) *Classifier {
	if window.Location == nil {
		window.Location = time.UTC
	}
	return &Classifier{window: window}
}

func (c *Classifier) Window() Window {
	return c.window
}

// Classify splits [clockIn, clockOut) into regular and overtime hours.
// A shift whose local clock-in day is Sunday is entirely overtime. Regular
// time is the overlap with the window on the clock-in day; everything else,
// including hours after midnight, is overtime.
func (c *Classifier) Classify(clockIn, clockOut time.Time) Split {
	total := clockOut.Sub(clockIn)
	if total <= 0 {
		return Split{}
	}

	in := clockIn.In(c.window.Location)
	if in.Weekday() == time.Sunday {
		return Split{TotalHours: total.Hours(), OvertimeHours: total.Hours()}
	}

	windowStart := atHour(in, c.window.Start)
	windowEnd := atHour(in, c.window.End)

	regular := time.Duration(0)
	from := latest(clockIn, windowStart)
	to := earliest(clockOut, windowEnd)
	if to.After(from) {
		regular = to.Sub(from)
	}

	return Split{
		TotalHours:    total.Hours(),
		RegularHours:  regular.Hours(),
		OvertimeHours: (total - regular).Hours(),
	}
}

// ClassifyShift returns false for a shift that has not been clocked out.
func (c *Classifier) ClassifyShift(s shift.Shift) (Split, bool) {
	if s.ClockOutTime == nil || s.IsActive() {
		return Split{}, false
	}
	return c.Classify(s.ClockInTime, *s.ClockOutTime), true
}

// Summarize aggregates completed shifts; open shifts are skipped.
func (c *Classifier) Summarize(shifts []shift.Shift) Summary {
	var sum Summary
	for _, s := range shifts {
		split, ok := c.ClassifyShift(s)
		if !ok {
			continue
		}
		sum.WorkingDays++
		sum.TotalHours += split.TotalHours
		sum.OvertimeHours += split.OvertimeHours
		if s.TotalDistance != nil {
			sum.TotalDistance += *s.TotalDistance
		}
	}
	sum.RegularHours = max(0, sum.TotalHours-sum.OvertimeHours)
	return sum
}

// atHour returns the instant at fractional local hour h on day's calendar
// date. time.Date resolves wall times skipped or repeated by DST.
func atHour(day time.Time, h float64) time.Time {
	secs := int(h*3600 + 0.5)
	return time.Date(day.Year(), day.Month(), day.Day(), secs/3600, secs%3600/60, secs%60, 0, day.Location())
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
