package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/repository"
)

// SlotBrowser is the slot-service surface the browse endpoints use.
type SlotBrowser interface {
	GenerateForProgram(ctx context.Context, programID uint64) error
	AvailableDates(ctx context.Context, programID uint64) ([]time.Time, error)
	SlotsForDate(ctx context.Context, programID uint64, date time.Time) ([]model.TimeSlot, error)
}

// ProgramFinder resolves a single active program.
type ProgramFinder interface {
	ActiveByID(ctx context.Context, id uint64) (model.Program, error)
}

// SlotHandler serves the date picker and the per-date slot listing.
// Viewing a program's dates also tops up its slot horizon, so inventory
// appears without any out-of-band job having run first.
type SlotHandler struct {
	Slots    SlotBrowser
	Programs ProgramFinder
	Logger   *zap.Logger
}

func NewSlotHandler(slots SlotBrowser, programs ProgramFinder, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{Slots: slots, Programs: programs, Logger: logger}
}

const dateLayout = "2006-01-02"

type slotResp struct {
	ID             uint64 `json:"id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	SpotsAvailable uint32 `json:"spots_available"`
	IsAvailable    bool   `json:"is_available"`
}

// ListDates returns the dates in the booking window that still have
// open slots for the program.  Generation runs first, best effort: a
// generation failure degrades to whatever inventory already exists.
func (h *SlotHandler) ListDates(c echo.Context) error {
	programID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Programs.ActiveByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "program not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Slots.GenerateForProgram(ctx, programID); err != nil {
		h.Logger.Warn("on-demand slot generation failed",
			zap.Uint64("program_id", programID), zap.Error(err))
	}

	dates, err := h.Slots.AvailableDates(ctx, programID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": out})
}

// ListSlots returns the program's slots on one date.  The date query
// parameter is required and must be YYYY-MM-DD.
func (h *SlotHandler) ListSlots(c echo.Context) error {
	programID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid program id"})
	}
	rawDate := c.QueryParam("date")
	if rawDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter required"})
	}
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Programs.ActiveByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "program not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	slots, err := h.Slots.SlotsForDate(ctx, programID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]slotResp, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResp{
			ID:             s.ID,
			Date:           s.Date.Format(dateLayout),
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			SpotsAvailable: s.SpotsAvailable,
			IsAvailable:    s.IsAvailable(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": out})
}
