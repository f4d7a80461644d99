package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healspace/booking/internal/repository"
)

// BookingOps is the booking-service surface the endpoints call.
type BookingOps interface {
	Reserve(ctx context.Context, userID, slotID, programID uint64) (*repository.BookingDetail, error)
	Cancel(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error)
	ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// BookingHandler serves the reserve, cancel and my-bookings endpoints.
// Every route runs behind the JWT middleware.
type BookingHandler struct {
	Bookings BookingOps
}

func NewBookingHandler(bookings BookingOps) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	ProgramID  uint64 `json:"program_id"`
	TimeSlotID uint64 `json:"time_slot_id"`
}

// Create books one spot on a slot for the authenticated user.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProgramID == 0 || req.TimeSlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "program_id/time_slot_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Bookings.Reserve(ctx, uid, req.TimeSlotID, req.ProgramID)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
	case errors.Is(err, repository.ErrSlotFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no spots available"})
	case errors.Is(err, repository.ErrDuplicateBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already booked for this slot"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": detail})
}

// Cancel releases the authenticated user's booking.  An id that does
// not belong to the user, or a booking already cancelled, gets 404.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	detail, err := h.Bookings.Cancel(ctx, uid, bookingID)
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail})
}

// List returns the authenticated user's bookings, soonest slot first.
func (h *BookingHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if bookings == nil {
		bookings = []repository.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
