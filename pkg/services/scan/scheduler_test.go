package scan

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingTriggerer struct {
	calls atomic.Int32
	err   error
}

func (c *countingTriggerer) Trigger(context.Context) (string, error) {
	c.calls.Add(1)
	return "run", c.err
}

func TestSchedulerTriggersImmediatelyAndOnInterval(t *testing.T) {
	trig := &countingTriggerer{}
	s := NewScheduler(trig, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return trig.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond, "expected the immediate trigger plus interval firings")
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	trig := &countingTriggerer{}
	s := NewScheduler(trig, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool { return trig.calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := trig.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, trig.calls.Load(), after+1, "no further triggers after cancel")
}

func TestSchedulerSwallowsAlreadyRunning(t *testing.T) {
	trig := &countingTriggerer{err: ErrScanAlreadyRunning}
	s := NewScheduler(trig, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return trig.calls.Load() >= 2
	}, time.Second, time.Millisecond, "rejection must not stop the schedule")
}
