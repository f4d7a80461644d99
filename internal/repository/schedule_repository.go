package repository

import (
	"context"
	"database/sql"

	"github.com/healspace/booking/internal/model"
)

// ScheduleRepo reads the recurring weekly schedule templates that the
// slot generator expands.  Templates are edited by program administration
// outside this service; the core treats them as read-only input.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// ActiveByProgram returns the active templates for one program, ordered
// by weekday and start time.
func (r *ScheduleRepo) ActiveByProgram(ctx context.Context, programID uint64) ([]model.ScheduleTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, program_id, day_of_week, start_time, end_time, slot_duration_mins, max_occupants, is_active
		 FROM program_schedules
		 WHERE program_id = ? AND is_active = TRUE
		 ORDER BY day_of_week, start_time`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tpls := make([]model.ScheduleTemplate, 0)
	for rows.Next() {
		var t model.ScheduleTemplate
		if err := rows.Scan(&t.ID, &t.ProgramID, &t.DayOfWeek, &t.StartTime, &t.EndTime,
			&t.SlotDurationMins, &t.MaxOccupants, &t.IsActive); err != nil {
			return nil, err
		}
		tpls = append(tpls, t)
	}
	return tpls, rows.Err()
}
