package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	// ListApprovedBetween returns approved leave days in [from, to).
	ListApprovedBetween(ctx context.Context, driverID string, from, to time.Time) ([]Record, error)
}

// GetLeaveUsage summarizes approved leave in [from, to).
func GetLeaveUsage(ctx context.Context, repo LeaveRepository, driverID string, from, to time.Time) (Usage, error) {
	records, err := repo.ListApprovedBetween(ctx, driverID, from, to)
	if err != nil {
		return Usage{}, err
	}
	return Summarize(records), nil
}

// GetAnnualLeaveUsage summarizes approved leave in the calendar year, in the
// location of loc.
func GetAnnualLeaveUsage(ctx context.Context, repo LeaveRepository, driverID string, year int, loc *time.Location) (Usage, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return GetLeaveUsage(ctx, repo, driverID, from, from.AddDate(1, 0, 0))
}
