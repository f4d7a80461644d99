package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/model"
	"github.com/healspace/booking/internal/repository"
)

type stubSlotBrowser struct {
	generated []uint64
	dates     []time.Time
	slots     []model.TimeSlot
	genErr    error
}

func (s *stubSlotBrowser) GenerateForProgram(_ context.Context, programID uint64) error {
	s.generated = append(s.generated, programID)
	return s.genErr
}

func (s *stubSlotBrowser) AvailableDates(_ context.Context, _ uint64) ([]time.Time, error) {
	return s.dates, nil
}

func (s *stubSlotBrowser) SlotsForDate(_ context.Context, _ uint64, _ time.Time) ([]model.TimeSlot, error) {
	return s.slots, nil
}

type stubProgramFinder struct {
	known map[uint64]model.Program
}

func (s *stubProgramFinder) ActiveByID(_ context.Context, id uint64) (model.Program, error) {
	p, ok := s.known[id]
	if !ok {
		return model.Program{}, repository.ErrProgramNotFound
	}
	return p, nil
}

func newSlotTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListSlotsRequiresDate(t *testing.T) {
	h := NewSlotHandler(&stubSlotBrowser{}, &stubProgramFinder{known: map[uint64]model.Program{1: {ID: 1}}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/1/slots")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ListSlots(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSlotsRejectsMalformedDate(t *testing.T) {
	h := NewSlotHandler(&stubSlotBrowser{}, &stubProgramFinder{known: map[uint64]model.Program{1: {ID: 1}}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/1/slots?date=03-02-2026")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ListSlots(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSlotsUnknownProgram(t *testing.T) {
	h := NewSlotHandler(&stubSlotBrowser{}, &stubProgramFinder{known: map[uint64]model.Program{}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/42/slots?date=2026-03-02")
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.ListSlots(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSlotsDerivesAvailability(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	browser := &stubSlotBrowser{slots: []model.TimeSlot{
		{ID: 1, ProgramID: 1, Date: date, StartTime: "10:00:00", EndTime: "10:45:00", SpotsAvailable: 3},
		{ID: 2, ProgramID: 1, Date: date, StartTime: "10:45:00", EndTime: "11:30:00", SpotsAvailable: 0},
	}}
	h := NewSlotHandler(browser, &stubProgramFinder{known: map[uint64]model.Program{1: {ID: 1}}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/1/slots?date=2026-03-02")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ListSlots(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Slots []struct {
			ID          uint64 `json:"id"`
			IsAvailable bool   `json:"is_available"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 2)
	assert.True(t, body.Slots[0].IsAvailable)
	assert.False(t, body.Slots[1].IsAvailable)
}

func TestListDatesGeneratesFirst(t *testing.T) {
	browser := &stubSlotBrowser{dates: []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}}
	h := NewSlotHandler(browser, &stubProgramFinder{known: map[uint64]model.Program{1: {ID: 1}}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/1/dates")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ListDates(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{1}, browser.generated, "viewing dates must top up the horizon")

	var body struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"2026-03-02", "2026-03-09"}, body.Dates)
}

func TestListDatesToleratesGenerationFailure(t *testing.T) {
	browser := &stubSlotBrowser{
		genErr: context.DeadlineExceeded,
		dates:  []time.Time{time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	h := NewSlotHandler(browser, &stubProgramFinder{known: map[uint64]model.Program{1: {ID: 1}}}, zap.NewNop())

	c, rec := newSlotTestContext(t, "/v1/programs/1/dates")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ListDates(c))
	assert.Equal(t, http.StatusOK, rec.Code, "existing inventory still served")
}
