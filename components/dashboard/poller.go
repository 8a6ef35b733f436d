package dashboard

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the cadence at which the aggregate snapshot is
// re-fetched while a dashboard is open.
const DefaultPollInterval = 60 * time.Second

// Poller re-runs a task on a fixed period, starting immediately. Restart
// cancels the current schedule and begins a fresh one from now, which is
// what happens whenever the date range changes. Every (re)start bumps a
// guard token so callbacks from a superseded schedule self-discard.
type Poller struct {
	mu       sync.Mutex
	interval time.Duration
	run      func(context.Context)
	cancel   context.CancelFunc
	token    uint64
}

// NewPoller builds a poller for the given task. A non-positive interval
// falls back to DefaultPollInterval.
func NewPoller(interval time.Duration, run func(context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, run: run}
}

// Start begins polling: one immediate run, then one run per interval.
// Calling Start on a running poller reschedules from now.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.token++
	token := p.token
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	go p.loop(runCtx, token)
}

// Restart is Start under its intended name at call sites that react to a
// date-range change.
func (p *Poller) Restart(ctx context.Context) {
	p.Start(ctx)
}

// Stop cancels the current schedule unconditionally. In-flight task
// invocations are not interrupted.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.token++
}

func (p *Poller) loop(ctx context.Context, token uint64) {
	if !p.alive(token) {
		return
	}
	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.alive(token) {
				return
			}
			p.run(ctx)
		}
	}
}

func (p *Poller) alive(token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return token == p.token
}
