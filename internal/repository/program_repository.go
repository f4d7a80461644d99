package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/healspace/booking/internal/model"
)

// ProgramRepo reads the program catalog.  Programs are created by staff
// tooling; the booking core consumes them for browsing and to resolve
// the default slot capacity during generation.
type ProgramRepo struct{ db *sql.DB }

func NewProgramRepo(db *sql.DB) *ProgramRepo { return &ProgramRepo{db: db} }

// ProgramWithCategory joins a program with its category name for catalog
// listings.
type ProgramWithCategory struct {
	model.Program
	CategoryName string
}

const programColumns = `p.id, p.category_id, p.title, p.description, p.duration_mins, p.location, p.capacity, p.image_url, p.is_active`

// ListActive returns every active program with its category name, ordered
// by title.
func (r *ProgramRepo) ListActive(ctx context.Context) ([]ProgramWithCategory, error) {
	return r.list(ctx,
		`SELECT `+programColumns+`, c.name
		 FROM programs p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.is_active = TRUE
		 ORDER BY p.title`)
}

// ListActiveByCategory returns the active programs in one category,
// ordered by title.
func (r *ProgramRepo) ListActiveByCategory(ctx context.Context, categoryID uint64) ([]ProgramWithCategory, error) {
	return r.list(ctx,
		`SELECT `+programColumns+`, c.name
		 FROM programs p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.category_id = ? AND p.is_active = TRUE
		 ORDER BY p.title`, categoryID)
}

// ActiveByID returns one active program or ErrProgramNotFound.  Inactive
// programs are reported as not found so they cannot be booked or browsed.
func (r *ProgramRepo) ActiveByID(ctx context.Context, id uint64) (model.Program, error) {
	var p model.Program
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category_id, title, description, duration_mins, location, capacity, image_url, is_active
		 FROM programs WHERE id = ? AND is_active = TRUE`, id).
		Scan(&p.ID, &p.CategoryID, &p.Title, &p.Description, &p.DurationMins,
			&p.Location, &p.Capacity, &p.ImageURL, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Program{}, ErrProgramNotFound
	}
	return p, err
}

// ActiveIDs returns the ids of all active programs.  Used by the startup
// generation pass.
func (r *ProgramRepo) ActiveIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM programs WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProgramRepo) list(ctx context.Context, query string, args ...interface{}) ([]ProgramWithCategory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progs := make([]ProgramWithCategory, 0)
	for rows.Next() {
		var p ProgramWithCategory
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Title, &p.Description, &p.DurationMins,
			&p.Location, &p.Capacity, &p.ImageURL, &p.IsActive, &p.CategoryName); err != nil {
			return nil, err
		}
		progs = append(progs, p)
	}
	return progs, rows.Err()
}
