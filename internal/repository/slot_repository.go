package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healspace/booking/internal/model"
)

// SlotRepo persists the generated time-slot inventory.  Slots are
// created only by the generator; their remaining capacity is mutated
// only through the booking engine's transactional paths in BookingRepo.
type SlotRepo struct{ db *sql.DB }

func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

const dateLayout = "2006-01-02"

// ExistsOnDate reports whether any slot already exists for the program on
// the given date.  The generator uses this as its per-date dedup check:
// a date with any slots, from any template, is never populated again.
func (r *SlotRepo) ExistsOnDate(ctx context.Context, programID uint64, date time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_slots WHERE program_id = ? AND slot_date = ?`,
		programID, date.Format(dateLayout)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateBulk inserts a batch of generated slots in one statement.  The
// unique key on (program_id, slot_date, start_time) backs up the
// generator's per-date check should two generation runs ever race.
// Passing an empty slice has no effect and returns nil.
func (r *SlotRepo) CreateBulk(ctx context.Context, slots []model.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO time_slots (program_id, slot_date, start_time, end_time, spots_available) VALUES `
	args := make([]interface{}, 0, len(slots)*5)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.ProgramID, s.Date.Format(dateLayout), s.StartTime, s.EndTime, s.SpotsAvailable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// AvailableDates returns the distinct dates in [from, to] on which the
// program has at least one non-cancelled slot with spots remaining,
// ascending.
func (r *SlotRepo) AvailableDates(ctx context.Context, programID uint64, from, to time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT slot_date
		 FROM time_slots
		 WHERE program_id = ? AND slot_date BETWEEN ? AND ?
		   AND is_cancelled = FALSE AND spots_available > 0
		 ORDER BY slot_date`,
		programID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListForDate returns all non-cancelled slots for the program on one
// date, ordered by start time ascending.  Full slots are included;
// callers derive availability from SpotsAvailable.
func (r *SlotRepo) ListForDate(ctx context.Context, programID uint64, date time.Time) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, program_id, slot_date, start_time, end_time, spots_available, is_cancelled, created_at
		 FROM time_slots
		 WHERE program_id = ? AND slot_date = ? AND is_cancelled = FALSE
		 ORDER BY start_time`,
		programID, date.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.Date, &s.StartTime, &s.EndTime,
			&s.SpotsAvailable, &s.IsCancelled, &s.CreatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
