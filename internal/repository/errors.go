// Package repository defines typed sentinel errors shared across the data
// access layer.  Handlers translate these into specific HTTP responses so
// the client always sees an actionable outcome rather than a generic
// failure: not-found conditions become 404, conflicts (a full slot, a
// duplicate booking, a taken email) become 409, and anything else is an
// infrastructure error reported as 500.
package repository

import "errors"

// ErrSlotNotFound is returned when no non-cancelled time slot exists with
// the requested id under the requested program.
var ErrSlotNotFound = errors.New("time slot not found")

// ErrSlotFull is returned when a reservation is attempted against a slot
// with no remaining spots.
var ErrSlotFull = errors.New("time slot is full")

// ErrDuplicateBooking is returned when the user already holds an active
// booking for the slot.
var ErrDuplicateBooking = errors.New("duplicate booking for slot")

// ErrBookingNotFound is returned when a cancellation targets a booking
// that does not exist, is owned by another user, or is already cancelled.
// All three cases look identical to the caller on purpose.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCategoryNotFound is returned when browsing an unknown category.
var ErrCategoryNotFound = errors.New("category not found")

// ErrProgramNotFound is returned when a program id does not resolve to an
// active program.
var ErrProgramNotFound = errors.New("program not found")

// ErrEmailExists is returned on registration with an already-taken email.
var ErrEmailExists = errors.New("email already exists")
