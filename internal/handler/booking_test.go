package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healspace/booking/internal/repository"
)

type stubBookings struct {
	reserveErr error
	cancelErr  error
	detail     *repository.BookingDetail
	list       []repository.BookingDetail
	listErr    error
}

func (s *stubBookings) Reserve(_ context.Context, userID, slotID, programID uint64) (*repository.BookingDetail, error) {
	if s.reserveErr != nil {
		return nil, s.reserveErr
	}
	return s.detail, nil
}

func (s *stubBookings) Cancel(_ context.Context, _, _ uint64) (*repository.BookingDetail, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.detail, nil
}

func (s *stubBookings) ListForUser(_ context.Context, _ uint64) ([]repository.BookingDetail, error) {
	return s.list, s.listErr
}

func newBookingContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	return c, rec
}

func TestCreateBookingStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"slot not found", repository.ErrSlotNotFound, http.StatusNotFound},
		{"slot full", repository.ErrSlotFull, http.StatusConflict},
		{"duplicate", repository.ErrDuplicateBooking, http.StatusConflict},
		{"storage failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookings{reserveErr: tc.err})
			c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings",
				`{"program_id":5,"time_slot_id":11}`)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	h := NewBookingHandler(&stubBookings{detail: &repository.BookingDetail{BookingID: 9, TimeSlotID: 11, Status: "booked"}})
	c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings",
		`{"program_id":5,"time_slot_id":11}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_id":9`)
}

func TestCreateBookingValidatesBody(t *testing.T) {
	h := NewBookingHandler(&stubBookings{})

	c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings", `{"program_id":5}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newBookingContext(t, http.MethodPost, "/v1/bookings", `not json`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	h := NewBookingHandler(&stubBookings{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings",
		strings.NewReader(`{"program_id":5,"time_slot_id":11}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id in context

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCancelBookingNotFound(t *testing.T) {
	h := NewBookingHandler(&stubBookings{cancelErr: repository.ErrBookingNotFound})
	c, rec := newBookingContext(t, http.MethodDelete, "/v1/bookings/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBookingSuccess(t *testing.T) {
	h := NewBookingHandler(&stubBookings{detail: &repository.BookingDetail{BookingID: 9, Status: "cancelled"}})
	c, rec := newBookingContext(t, http.MethodDelete, "/v1/bookings/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancelled"`)
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	h := NewBookingHandler(&stubBookings{})
	c, rec := newBookingContext(t, http.MethodGet, "/v1/my-bookings", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings":[]`)
}
