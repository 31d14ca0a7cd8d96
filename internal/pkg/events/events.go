package events

import (
	"context"
	"time"
)

const (
	TopicShiftLifecycle   = "fleet.shift.lifecycle.v1"
	TopicAdvanceLifecycle = "fleet.advance.lifecycle.v1"
)

const (
	TypeShiftClockedIn  = "shift.clocked_in"
	TypeShiftClockedOut = "shift.clocked_out"
	TypeShiftAdjusted   = "shift.adjusted"

	TypeAdvanceRequested = "advance.requested"
	TypeAdvanceApproved  = "advance.approved"
	TypeAdvanceRejected  = "advance.rejected"
	TypeAdvancePaid      = "advance.paid"
	TypeAdvanceSettled   = "advance.settled"
)

// Event is a domain fact emitted after the owning transaction commits.
type Event struct {
	Topic      string    `json:"-"`
	Type       string    `json:"event_type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type ShiftEventPayload struct {
	ShiftID       string     `json:"shift_id"`
	DriverID      string     `json:"driver_id"`
	ClockInTime   time.Time  `json:"clock_in_time"`
	ClockOutTime  *time.Time `json:"clock_out_time,omitempty"`
	StartOdometer int64      `json:"start_odometer"`
	EndOdometer   *int64     `json:"end_odometer,omitempty"`
	Status        string     `json:"status"`
}

type AdvanceEventPayload struct {
	AdvanceID       string   `json:"advance_id"`
	DriverID        string   `json:"driver_id"`
	RequestedAmount float64  `json:"requested_amount"`
	ApprovedAmount  *float64 `json:"approved_amount,omitempty"`
	Status          string   `json:"status"`
	ActorID         string   `json:"actor_id,omitempty"`
}
