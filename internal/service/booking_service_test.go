package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/queue"
	"github.com/healspace/booking/internal/repository"
)

// memReservations honors the reservation contract in memory: a spot
// counter guarded by a mutex, one active booking per user per slot, and
// cancel flips status at most once.
type memReservations struct {
	mu       sync.Mutex
	spots    map[uint64]uint32 // slotID -> remaining
	active   map[[2]uint64]uint64
	nextID   uint64
	bookings map[uint64]*repository.BookingDetail
}

func newMemReservations(slotID uint64, capacity uint32) *memReservations {
	return &memReservations{
		spots:    map[uint64]uint32{slotID: capacity},
		active:   map[[2]uint64]uint64{},
		bookings: map[uint64]*repository.BookingDetail{},
	}
}

func (m *memReservations) Reserve(_ context.Context, userID, slotID, _ uint64) (*repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	spots, ok := m.spots[slotID]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	if _, dup := m.active[[2]uint64{userID, slotID}]; dup {
		return nil, repository.ErrDuplicateBooking
	}
	if spots == 0 {
		return nil, repository.ErrSlotFull
	}
	m.spots[slotID] = spots - 1
	m.nextID++
	d := &repository.BookingDetail{
		BookingID:  m.nextID,
		UserID:     userID,
		TimeSlotID: slotID,
		Status:     "booked",
	}
	m.active[[2]uint64{userID, slotID}] = m.nextID
	m.bookings[m.nextID] = d
	return d, nil
}

func (m *memReservations) Cancel(_ context.Context, userID, bookingID uint64) (*repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.bookings[bookingID]
	if !ok || d.UserID != userID || d.Status != "booked" {
		return nil, repository.ErrBookingNotFound
	}
	d.Status = "cancelled"
	m.spots[d.TimeSlotID]++
	delete(m.active, [2]uint64{userID, d.TimeSlotID})
	return d, nil
}

func (m *memReservations) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.BookingDetail
	for _, d := range m.bookings {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	cancelled []queue.BookingCancelledEvent
	err       error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, e queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.confirmed = append(p.confirmed, e)
	return nil
}

func (p *recordingPublisher) PublishBookingCancelled(_ context.Context, e queue.BookingCancelledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.cancelled = append(p.cancelled, e)
	return nil
}

func TestReservePublishesConfirmation(t *testing.T) {
	store := newMemReservations(11, 3)
	pub := &recordingPublisher{}
	svc := NewBookingService(store, pub, zap.NewNop())

	detail, err := svc.Reserve(context.Background(), 1, 11, 5)
	require.NoError(t, err)
	require.NotNil(t, detail)

	require.Len(t, pub.confirmed, 1)
	ev := pub.confirmed[0]
	assert.Equal(t, detail.BookingID, ev.BookingID)
	assert.Equal(t, uint64(1), ev.UserID)
	assert.Equal(t, uint64(11), ev.TimeSlotID)
	assert.NotEmpty(t, ev.EventID)
}

func TestReservePassesSentinelsThrough(t *testing.T) {
	store := newMemReservations(11, 1)
	svc := NewBookingService(store, &recordingPublisher{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, 99, 5)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)

	_, err = svc.Reserve(ctx, 1, 11, 5)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 1, 11, 5)
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)

	_, err = svc.Reserve(ctx, 2, 11, 5)
	assert.ErrorIs(t, err, repository.ErrSlotFull)
}

func TestReserveSucceedsWhenPublisherFails(t *testing.T) {
	store := newMemReservations(11, 1)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewBookingService(store, pub, zap.NewNop())

	detail, err := svc.Reserve(context.Background(), 1, 11, 5)
	require.NoError(t, err)
	assert.NotNil(t, detail)
}

func TestCancelRestoresSpotAndPublishes(t *testing.T) {
	store := newMemReservations(11, 1)
	pub := &recordingPublisher{}
	svc := NewBookingService(store, pub, zap.NewNop())
	ctx := context.Background()

	detail, err := svc.Reserve(ctx, 1, 11, 5)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, 1, detail.BookingID)
	require.NoError(t, err)
	require.Len(t, pub.cancelled, 1)

	// Cancelling twice must not free a second spot.
	_, err = svc.Cancel(ctx, 1, detail.BookingID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	// The freed spot is bookable again, once.
	_, err = svc.Reserve(ctx, 2, 11, 5)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 3, 11, 5)
	assert.ErrorIs(t, err, repository.ErrSlotFull)
}

func TestCancelRejectsForeignBooking(t *testing.T) {
	store := newMemReservations(11, 2)
	svc := NewBookingService(store, &recordingPublisher{}, zap.NewNop())
	ctx := context.Background()

	detail, err := svc.Reserve(ctx, 1, 11, 5)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, 2, detail.BookingID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	const capacity = 8
	const contenders = 64

	store := newMemReservations(11, capacity)
	svc := NewBookingService(store, &recordingPublisher{}, zap.NewNop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, full := 0, 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), userID, 11, 5)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, repository.ErrSlotFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded, "exactly capacity reservations must win")
	assert.Equal(t, contenders-capacity, full)
}
