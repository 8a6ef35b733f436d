package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPollerRunsImmediately(t *testing.T) {
	var runs atomic.Int64
	p := NewPoller(time.Hour, func(context.Context) {
		runs.Add(1)
	})
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return runs.Load() == 1 })
}

func TestPollerRestartsFromNow(t *testing.T) {
	var runs atomic.Int64
	p := NewPoller(time.Hour, func(context.Context) {
		runs.Add(1)
	})
	p.Start(context.Background())
	waitFor(t, func() bool { return runs.Load() == 1 })

	// A range change restarts the schedule; the immediate run fires again.
	p.Restart(context.Background())
	waitFor(t, func() bool { return runs.Load() == 2 })
	p.Stop()
}

func TestPollerStopPreventsFurtherRuns(t *testing.T) {
	var runs atomic.Int64
	p := NewPoller(20*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	p.Start(context.Background())
	waitFor(t, func() bool { return runs.Load() >= 1 })
	p.Stop()

	settled := runs.Load()
	time.Sleep(100 * time.Millisecond)
	if got := runs.Load(); got > settled+1 {
		t.Fatalf("poller kept running after Stop: %d -> %d", settled, got)
	}
}

func TestPollerTicksOnInterval(t *testing.T) {
	var runs atomic.Int64
	p := NewPoller(10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	p.Start(context.Background())
	defer p.Stop()

	waitFor(t, func() bool { return runs.Load() >= 3 })
}
