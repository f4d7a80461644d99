package model

import "time"

// TimeSlot is a single bookable interval for a program on a concrete
// date, produced by the slot generator from a schedule template.  The
// (ProgramID, Date, StartTime) triple is unique: the generator must
// never create the same slot twice.
//
// SpotsAvailable is the remaining capacity and the only mutable field;
// the capacity a slot was created with is not kept on the row.  Slots
// are never deleted — past slots remain as historical record, and a
// cancelled slot keeps its rows but is hidden from browsing.
type TimeSlot struct {
	ID             uint64    // time_slots.id
	ProgramID      uint64    // time_slots.program_id
	Date           time.Time // time_slots.slot_date (midnight, date only)
	StartTime      string    // time_slots.start_time ("HH:MM:SS")
	EndTime        string    // time_slots.end_time ("HH:MM:SS")
	SpotsAvailable uint32    // time_slots.spots_available
	IsCancelled    bool      // time_slots.is_cancelled
	CreatedAt      time.Time // time_slots.created_at
}

// IsAvailable reports whether the slot can still accept a booking.
func (s TimeSlot) IsAvailable() bool {
	return !s.IsCancelled && s.SpotsAvailable > 0
}
