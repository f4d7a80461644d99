package model

// ScheduleTemplate is a recurring weekly rule from the `program_schedules`
// table.  The slot generator expands each active template into concrete
// dated time slots.  Times are stored as "HH:MM:SS" clock strings in the
// center's single operating timezone.
//
// DayOfWeek follows MySQL's DAYOFWEEK()-adjacent convention used across
// the schema: 0 = Sunday through 6 = Saturday, matching Go's time.Weekday.
//
// MaxOccupants overrides the program's default capacity when greater than
// zero; zero means "inherit the program capacity".
type ScheduleTemplate struct {
	ID               uint64 // program_schedules.id
	ProgramID        uint64 // program_schedules.program_id
	DayOfWeek        uint8  // program_schedules.day_of_week (0=Sun .. 6=Sat)
	StartTime        string // program_schedules.start_time ("HH:MM:SS")
	EndTime          string // program_schedules.end_time ("HH:MM:SS")
	SlotDurationMins uint32 // program_schedules.slot_duration_mins
	MaxOccupants     uint32 // program_schedules.max_occupants (0 = inherit)
	IsActive         bool   // program_schedules.is_active
}
