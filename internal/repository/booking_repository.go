package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// BookingRepo implements the booking state machine against MySQL.  The
// reserve and cancel paths each run inside a single transaction so the
// capacity counter and the booking row always move together.  Overselling
// is prevented at the storage layer: the slot row is locked FOR UPDATE
// for the duration of the check, and the decrement itself is conditional
// on spots remaining, so the guarantee holds even across independent
// worker processes sharing the database.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with its slot and program display
// data, as consumed by the my-bookings listing and the event publisher.
type BookingDetail struct {
	BookingID    uint64     `json:"booking_id"`
	UserID       uint64     `json:"-"`
	ProgramID    uint64     `json:"program_id"`
	ProgramTitle string     `json:"program_title"`
	Location     string     `json:"location"`
	TimeSlotID   uint64     `json:"time_slot_id"`
	Date         time.Time  `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	Status       string     `json:"status"`
	BookedAt     time.Time  `json:"booked_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

// Reserve books one spot in a slot for a user.  It fails with
// ErrSlotNotFound when no non-cancelled slot with that id exists under
// the program, ErrSlotFull when no spots remain, and ErrDuplicateBooking
// when the user already holds an active booking for the slot.  On
// success the booking row insert and the capacity decrement commit as
// one unit.
func (r *BookingRepo) Reserve(ctx context.Context, userID, slotID, programID uint64) (*BookingDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the slot row for the duration of the check-then-act.  The lock
	// serializes concurrent reservations per slot; cross-slot requests do
	// not contend.
	var spots uint32
	err = tx.QueryRowContext(ctx,
		`SELECT spots_available FROM time_slots
		 WHERE id = ? AND program_id = ? AND is_cancelled = FALSE
		 FOR UPDATE`, slotID, programID).Scan(&spots)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	if spots == 0 {
		return nil, ErrSlotFull
	}

	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM bookings WHERE user_id = ? AND time_slot_id = ? AND status = 'booked' LIMIT 1`,
		userID, slotID).Scan(&existing)
	if err == nil {
		return nil, ErrDuplicateBooking
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, time_slot_id, status) VALUES (?, ?, 'booked')`,
		userID, slotID)
	if err != nil {
		// The unique key over (user_id, time_slot_id, active) resolves any
		// duplicate-submission race the SELECT above could not see.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Conditional decrement: with the row lock held this cannot miss, but
	// the predicate keeps the counter from ever going negative regardless.
	upd, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET spots_available = spots_available - 1
		 WHERE id = ? AND spots_available > 0`, slotID)
	if err != nil {
		return nil, err
	}
	if n, err := upd.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrSlotFull
	}

	detail, err := r.detailTx(ctx, tx, uint64(bookingID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return detail, nil
}

// Cancel transitions a booking from booked to cancelled and restores the
// spot to its slot.  It fails with ErrBookingNotFound when the booking
// does not exist, belongs to another user, or is already cancelled — the
// conditional UPDATE treats all three identically, which also makes a
// repeated cancel an idempotent failure rather than a double restore.
func (r *BookingRepo) Cancel(ctx context.Context, userID, bookingID uint64) (*BookingDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	upd, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', cancelled_at = NOW()
		 WHERE id = ? AND user_id = ? AND status = 'booked'`, bookingID, userID)
	if err != nil {
		return nil, err
	}
	n, err := upd.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrBookingNotFound
	}

	// The restore is tied to the status flip above: each booking row flips
	// booked -> cancelled at most once, so the spot count can never climb
	// past what the slot was created with.
	var slotID uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT time_slot_id FROM bookings WHERE id = ?`, bookingID).Scan(&slotID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE time_slots SET spots_available = spots_available + 1 WHERE id = ?`, slotID); err != nil {
		return nil, err
	}

	detail, err := r.detailTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return detail, nil
}

// ListByUser returns every booking of a user, any status, joined with
// slot and program display data.  Ordered by slot date ascending then
// start time ascending, so upcoming visits read top to bottom.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+`
		 WHERE b.user_id = ?
		 ORDER BY ts.slot_date ASC, ts.start_time ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

const detailQuery = `SELECT b.id, b.user_id, p.id, p.title, p.location,
		        ts.id, ts.slot_date, ts.start_time, ts.end_time,
		        b.status, b.booked_at, b.cancelled_at
		 FROM bookings b
		 JOIN time_slots ts ON ts.id = b.time_slot_id
		 JOIN programs p ON p.id = ts.program_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetail(row rowScanner) (BookingDetail, error) {
	var (
		d           BookingDetail
		cancelledAt sql.NullTime
	)
	err := row.Scan(&d.BookingID, &d.UserID, &d.ProgramID, &d.ProgramTitle, &d.Location,
		&d.TimeSlotID, &d.Date, &d.StartTime, &d.EndTime,
		&d.Status, &d.BookedAt, &cancelledAt)
	if err != nil {
		return BookingDetail{}, err
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		d.CancelledAt = &t
	}
	return d, nil
}

func (r *BookingRepo) detailTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*BookingDetail, error) {
	row := tx.QueryRowContext(ctx, detailQuery+` WHERE b.id = ?`, bookingID)
	d, err := scanDetail(row)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
