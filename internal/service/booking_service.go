package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/queue"
	"github.com/healspace/booking/internal/repository"
)

// ReservationStore is the transactional booking engine.  Implementations
// must guarantee that Reserve never oversells a slot and that Cancel
// releases a spot at most once per booking.
type ReservationStore interface {
	Reserve(ctx context.Context, userID, slotID, programID uint64) (*repository.BookingDetail, error)
	Cancel(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// EventPublisher pushes booking lifecycle events to the message queue.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, event queue.BookingCancelledEvent) error
}

// BookingService wraps the reservation engine with event publishing.
// Publishing is best effort: a queue outage never fails a booking that
// already committed.
type BookingService struct {
	store     ReservationStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewBookingService(store ReservationStore, publisher EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{store: store, publisher: publisher, logger: logger}
}

// Reserve books one spot on the slot for the user.  Storage sentinels
// (ErrSlotNotFound, ErrSlotFull, ErrDuplicateBooking) pass through
// unchanged for the handler to map.
func (s *BookingService) Reserve(ctx context.Context, userID, slotID, programID uint64) (*repository.BookingDetail, error) {
	detail, err := s.store.Reserve(ctx, userID, slotID, programID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := queue.BookingConfirmedEvent{
			EventID:      uuid.New().String(),
			BookingID:    detail.BookingID,
			UserID:       userID,
			TimeSlotID:   detail.TimeSlotID,
			ProgramTitle: detail.ProgramTitle,
			SlotDate:     detail.Date.Format("2006-01-02"),
			StartTime:    detail.StartTime,
			OccurredAt:   time.Now().UTC(),
		}
		if err := s.publisher.PublishBookingConfirmed(ctx, event); err != nil {
			s.logger.Warn("failed to publish booking confirmation",
				zap.Uint64("booking_id", detail.BookingID),
				zap.Error(err))
		}
	}
	return detail, nil
}

// Cancel releases the user's booking and frees its spot.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) (*repository.BookingDetail, error) {
	detail, err := s.store.Cancel(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := queue.BookingCancelledEvent{
			EventID:      uuid.New().String(),
			BookingID:    detail.BookingID,
			UserID:       userID,
			TimeSlotID:   detail.TimeSlotID,
			ProgramTitle: detail.ProgramTitle,
			SlotDate:     detail.Date.Format("2006-01-02"),
			StartTime:    detail.StartTime,
			OccurredAt:   time.Now().UTC(),
		}
		if err := s.publisher.PublishBookingCancelled(ctx, event); err != nil {
			s.logger.Warn("failed to publish booking cancellation",
				zap.Uint64("booking_id", detail.BookingID),
				zap.Error(err))
		}
	}
	return detail, nil
}

// ListForUser returns the user's bookings, upcoming first.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return s.store.ListByUser(ctx, userID)
}
