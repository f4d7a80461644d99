// Package service holds the booking core: the slot generator that expands
// recurring weekly schedule templates into dated inventory, and the
// booking engine that reserves and releases spots in that inventory.
// Services speak to storage through small interfaces so the SQL layer
// stays swappable in tests.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/repository"
)

// HorizonDays is the rolling generation window: slots exist for today
// through today+HorizonDays inclusive, and never outside it.
const HorizonDays = 21

// ProgramStore resolves programs for generation and browsing.
type ProgramStore interface {
	ActiveByID(ctx context.Context, id uint64) (model.Program, error)
	ActiveIDs(ctx context.Context) ([]uint64, error)
}

// ScheduleStore reads the recurring weekly templates for a program.
type ScheduleStore interface {
	ActiveByProgram(ctx context.Context, programID uint64) ([]model.ScheduleTemplate, error)
}

// SlotStore persists and queries generated slot inventory.
type SlotStore interface {
	ExistsOnDate(ctx context.Context, programID uint64, date time.Time) (bool, error)
	CreateBulk(ctx context.Context, slots []model.TimeSlot) error
	AvailableDates(ctx context.Context, programID uint64, from, to time.Time) ([]time.Time, error)
	ListForDate(ctx context.Context, programID uint64, date time.Time) ([]model.TimeSlot, error)
}

// SlotService owns slot generation and the read-side slot queries.
type SlotService struct {
	programs  ProgramStore
	schedules ScheduleStore
	slots     SlotStore
	logger    *zap.Logger
	now       func() time.Time // override in tests
}

func NewSlotService(programs ProgramStore, schedules ScheduleStore, slots SlotStore, logger *zap.Logger) *SlotService {
	return &SlotService{
		programs:  programs,
		schedules: schedules,
		slots:     slots,
		logger:    logger,
		now:       time.Now,
	}
}

// today returns the current date at midnight in the operating timezone.
func (s *SlotService) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// GenerateForProgram expands the program's active schedule templates into
// concrete slots over the rolling horizon.  It is idempotent and safe to
// call on every booking-page view: a date that already has any slots for
// the program is skipped entirely.  Note the dedup is per date, not per
// template — once a date is populated, templates added later for the same
// weekday contribute nothing to it until the horizon rolls past.
//
// Failures on individual dates are logged and skipped; they never abort
// the rest of the run and never block reads of existing inventory.
func (s *SlotService) GenerateForProgram(ctx context.Context, programID uint64) error {
	prog, err := s.programs.ActiveByID(ctx, programID)
	if errors.Is(err, repository.ErrProgramNotFound) {
		return nil // inactive or unknown program: nothing to generate
	}
	if err != nil {
		return fmt.Errorf("load program %d: %w", programID, err)
	}

	templates, err := s.schedules.ActiveByProgram(ctx, programID)
	if err != nil {
		return fmt.Errorf("load schedules for program %d: %w", programID, err)
	}
	if len(templates) == 0 {
		return nil
	}

	byWeekday := make(map[time.Weekday][]model.ScheduleTemplate)
	for _, t := range templates {
		wd := time.Weekday(t.DayOfWeek)
		byWeekday[wd] = append(byWeekday[wd], t)
	}

	start := s.today()
	created := 0
	for i := 0; i <= HorizonDays; i++ {
		date := start.AddDate(0, 0, i)
		matching := byWeekday[date.Weekday()]
		if len(matching) == 0 {
			continue
		}

		exists, err := s.slots.ExistsOnDate(ctx, programID, date)
		if err != nil {
			s.logger.Warn("slot existence check failed, skipping date",
				zap.Uint64("program_id", programID),
				zap.Time("date", date),
				zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		var batch []model.TimeSlot
		for _, tpl := range matching {
			slots, err := expandTemplate(tpl, date, prog.Capacity)
			if err != nil {
				s.logger.Warn("invalid schedule template, skipping",
					zap.Uint64("template_id", tpl.ID),
					zap.Uint64("program_id", programID),
					zap.Error(err))
				continue
			}
			batch = append(batch, slots...)
		}
		if len(batch) == 0 {
			continue
		}
		if err := s.slots.CreateBulk(ctx, batch); err != nil {
			s.logger.Warn("slot insert failed, skipping date",
				zap.Uint64("program_id", programID),
				zap.Time("date", date),
				zap.Error(err))
			continue
		}
		created += len(batch)
	}

	if created > 0 {
		s.logger.Info("generated slots",
			zap.Uint64("program_id", programID),
			zap.Int("count", created))
	}
	return nil
}

// GenerateForAllActivePrograms runs GenerateForProgram for every active
// program.  Per-program failures are logged and swallowed so one broken
// program cannot starve the rest of inventory.
func (s *SlotService) GenerateForAllActivePrograms(ctx context.Context) error {
	ids, err := s.programs.ActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active programs: %w", err)
	}
	for _, id := range ids {
		if err := s.GenerateForProgram(ctx, id); err != nil {
			s.logger.Error("slot generation failed for program",
				zap.Uint64("program_id", id),
				zap.Error(err))
		}
	}
	return nil
}

// expandTemplate walks the template's time range in slot-duration steps
// and emits one slot per full step.  A trailing remainder shorter than
// the slot duration is dropped.  Capacity comes from the template
// override when set, else from the program default.
func expandTemplate(tpl model.ScheduleTemplate, date time.Time, programCapacity uint32) ([]model.TimeSlot, error) {
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}
	startMin, _ := parseClock(tpl.StartTime)
	endMin, _ := parseClock(tpl.EndTime)
	dur := int(tpl.SlotDurationMins)

	capacity := programCapacity
	if tpl.MaxOccupants > 0 {
		capacity = tpl.MaxOccupants
	}

	var slots []model.TimeSlot
	for off := startMin; off+dur <= endMin; off += dur {
		slots = append(slots, model.TimeSlot{
			ProgramID:      tpl.ProgramID,
			Date:           date,
			StartTime:      formatClock(off),
			EndTime:        formatClock(off + dur),
			SpotsAvailable: capacity,
		})
	}
	return slots, nil
}

// validateTemplate rejects templates the generator cannot expand: bad
// clock strings, a zero duration, an inverted range, or an out-of-range
// weekday.
func validateTemplate(tpl model.ScheduleTemplate) error {
	if tpl.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week %d out of range", tpl.DayOfWeek)
	}
	startMin, err := parseClock(tpl.StartTime)
	if err != nil {
		return err
	}
	endMin, err := parseClock(tpl.EndTime)
	if err != nil {
		return err
	}
	if tpl.SlotDurationMins == 0 {
		return fmt.Errorf("slot duration must be positive")
	}
	if endMin <= startMin {
		return fmt.Errorf("end time %q not after start time %q", tpl.EndTime, tpl.StartTime)
	}
	return nil
}

// AvailableDates returns the dates within the horizon that still have at
// least one open slot for the program, ascending.
func (s *SlotService) AvailableDates(ctx context.Context, programID uint64) ([]time.Time, error) {
	from := s.today()
	return s.slots.AvailableDates(ctx, programID, from, from.AddDate(0, 0, HorizonDays))
}

// SlotsForDate returns the program's non-cancelled slots on one date,
// ordered by start time.
func (s *SlotService) SlotsForDate(ctx context.Context, programID uint64, date time.Time) ([]model.TimeSlot, error) {
	return s.slots.ListForDate(ctx, programID, date)
}
