// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

import "time"

// Queue names for booking lifecycle events. Both queues are declared
// durable by publisher and consumer alike, so declaration order between
// the two processes does not matter.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published when a reservation commits. It
// carries enough display data for downstream consumers to log or notify
// without querying the primary database.
type BookingConfirmedEvent struct {
	EventID      string    `json:"event_id"`
	BookingID    uint64    `json:"booking_id"`
	UserID       uint64    `json:"user_id"`
	TimeSlotID   uint64    `json:"time_slot_id"`
	ProgramTitle string    `json:"program_title"`
	SlotDate     string    `json:"slot_date"`
	StartTime    string    `json:"start_time"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and its
// spot returned to the slot.
type BookingCancelledEvent struct {
	EventID      string    `json:"event_id"`
	BookingID    uint64    `json:"booking_id"`
	UserID       uint64    `json:"user_id"`
	TimeSlotID   uint64    `json:"time_slot_id"`
	ProgramTitle string    `json:"program_title"`
	SlotDate     string    `json:"slot_date"`
	StartTime    string    `json:"start_time"`
	OccurredAt   time.Time `json:"occurred_at"`
}
