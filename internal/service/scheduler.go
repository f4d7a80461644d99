package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler keeps the rolling slot horizon topped up in the background.
// Generation also runs on demand from the browse endpoints, so the
// ticker only has to cover programs nobody is looking at.
type Scheduler struct {
	slots    *SlotService
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(slots *SlotService, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		slots:    slots,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one generation pass immediately, then repeats on the
// configured interval until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the ticker and waits for any in-flight pass to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) runOnce(ctx context.Context) {
	started := time.Now()
	if err := s.slots.GenerateForAllActivePrograms(ctx); err != nil {
		s.logger.Error("scheduled slot generation failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled slot generation completed",
		zap.Duration("took", time.Since(started)))
}
