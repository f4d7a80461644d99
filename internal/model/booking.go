package model

import "time"

// Booking status values.  A booking is created as BookingStatusBooked and
// may transition to BookingStatusCancelled exactly once; there is no way
// back.  Cancelled bookings are retained as an audit trail.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

// Booking records a user's reservation of one time slot.  At most one
// booking with status "booked" may exist per (user, slot) pair; the
// schema enforces this with a unique key over an active-flag column.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  TimeSlotID  – reserved slot.
//  Status      – "booked" or "cancelled".
//  BookedAt    – creation timestamp.
//  CancelledAt – when the booking was cancelled (null while booked).
type Booking struct {
	ID          uint64     // bookings.id
	UserID      uint64     // bookings.user_id
	TimeSlotID  uint64     // bookings.time_slot_id
	Status      string     // bookings.status
	BookedAt    time.Time  // bookings.booked_at
	CancelledAt *time.Time // bookings.cancelled_at (nullable)
}
