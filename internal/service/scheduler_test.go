package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healspace/booking/internal/model"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	programs := &fakePrograms{byID: map[uint64]model.Program{7: {ID: 7, Capacity: 10, IsActive: true}}}
	schedules := &fakeSchedules{byProgram: map[uint64][]model.ScheduleTemplate{7: {mondayTemplate(7)}}}
	slots := &fakeSlots{}

	svc := newTestSlotService(programs, schedules, slots)
	sched := NewScheduler(svc, time.Hour, zap.NewNop())
	sched.Start(context.Background())

	require.Eventually(t, func() bool {
		return slots.count() > 0
	}, 2*time.Second, 10*time.Millisecond, "first pass must run without waiting for the ticker")

	sched.Stop()
}

func TestSchedulerStopTerminates(t *testing.T) {
	programs := &fakePrograms{byID: map[uint64]model.Program{}}
	schedules := &fakeSchedules{byProgram: map[uint64][]model.ScheduleTemplate{}}
	svc := newTestSlotService(programs, schedules, &fakeSlots{})

	sched := NewScheduler(svc, time.Hour, zap.NewNop())
	sched.Start(context.Background())

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.True(t, true)
}
