package worktime

import "time"

// MonthRange returns the half-open range [from, to) covering the calendar
// month in the classifier's reference location.
func (c *Classifier) MonthRange(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, c.window.Location)
	return from, from.AddDate(0, 1, 0)
}

// DayRange returns the local calendar day containing t.
func (c *Classifier) DayRange(t time.Time) (from, to time.Time) {
	local := t.In(c.window.Location)
	from = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.window.Location)
	return from, from.AddDate(0, 0, 1)
}
