// Package scheduler runs a task on a fixed interval with an explicit
// start/stop lifecycle.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/logging"
)

// DefaultInterval is the unlock re-check period.
const DefaultInterval = 5 * time.Second

// Task is one unit of periodic work. Errors are logged and do not stop the
// driver.
type Task func(ctx context.Context) error

// newTicker is a test seam for time.NewTicker.
var newTicker = func(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Driver calls its task on every tick while running.
//
// Stop waits for the loop goroutine to exit, so it must not be called from
// inside the task or while holding a lock the task needs.
type Driver struct {
	name     string
	interval time.Duration
	task     Task
	logger   logging.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver builds a stopped driver. A non-positive interval falls back to
// DefaultInterval.
func NewDriver(name string, interval time.Duration, task Task, logger logging.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With("driver", name),
	}
}

func (d *Driver) Interval() time.Duration { return d.interval }

// Start begins ticking. Calling Start on a running driver does nothing.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	d.gen++
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.loop(ctx, d.gen, d.done)

	d.logger.Debug(ctx, "driver started", "interval", d.interval.String())
}

// Stop cancels the loop and waits until it has exited. No task runs after
// Stop returns. Stopping a stopped driver does nothing.
func (d *Driver) Stop() {
	d.mu.Lock()
	if d.cancel == nil {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.cancel = nil
	d.gen++
	done := d.done
	d.mu.Unlock()

	<-done
	d.logger.Debug(context.Background(), "driver stopped")
}

// Restart stops the driver and starts it again with ctx.
func (d *Driver) Restart(ctx context.Context) {
	d.Stop()
	d.Start(ctx)
}

func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

func (d *Driver) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen == gen
}

func (d *Driver) loop(ctx context.Context, gen uint64, done chan struct{}) {
	ticks, stop := newTicker(d.interval)
	defer stop()
	defer close(done)
	defer d.release(gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			// a tick that lost the race against Stop is dropped
			if ctx.Err() != nil || !d.current(gen) {
				return
			}
			if err := d.task(ctx); err != nil {
				d.logger.Warn(ctx, "periodic task failed", "error", err)
			}
		}
	}
}

// release marks the driver stopped when the loop ends on its own, e.g.
// because the parent context was cancelled.
func (d *Driver) release(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen == gen && d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
