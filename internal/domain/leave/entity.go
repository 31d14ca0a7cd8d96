package leave

import "time"

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeEmergency Type = "emergency"
)

// IsPaid reports whether a day of this leave type keeps the driver's salary.
func (t Type) IsPaid() bool {
	return t == TypeAnnual
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Record is one day of leave.
type Record struct {
	ID        string
	DriverID  string
	LeaveDate time.Time
	Type      Type
	Status    Status
	Reason    *string
	CreatedAt time.Time
}

type Usage struct {
	PaidDays   int
	UnpaidDays int
}

// Summarize counts approved records by pay treatment. Records that are not
// approved are ignored.
func Summarize(records []Record) Usage {
	var u Usage
	for _, r := range records {
		if r.Status != StatusApproved {
			continue
		}
		if r.Type.IsPaid() {
			u.PaidDays++
		} else {
			u.UnpaidDays++
		}
	}
	return u
}
