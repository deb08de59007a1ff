// Package countdown runs per-instance 1-second countdown tasks toward a
// target instant. Each task owns its ticker and is torn down exactly once;
// many tasks may run concurrently (one per visible card) without sharing
// state.
package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/venuebook/bookgo/internal/domain"
)

// Countdown is an owned, cancellable periodic task. Once started it emits a
// snapshot every second until Stop is called or the context is cancelled.
// After the target instant passes the task keeps ticking on the same cadence
// but every snapshot collapses to the terminal Started state; it never stops
// itself early.
type Countdown struct {
	target   time.Time
	interval time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithNow overrides the clock. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(c *Countdown) { c.now = now }
}

// WithInterval overrides the 1-second tick cadence. Used in tests.
func WithInterval(d time.Duration) Option {
	return func(c *Countdown) { c.interval = d }
}

func New(target time.Time, opts ...Option) *Countdown {
	c := &Countdown{
		target:   target,
		interval: time.Second,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot computes the remaining time right now.
func (c *Countdown) Snapshot() domain.CountdownSnapshot {
	return Remaining(c.now(), c.target)
}

// Run emits a snapshot per tick until the context is cancelled or Stop is
// called. The ticker is owned by this call and always released on return.
func (c *Countdown) Run(ctx context.Context, emit func(domain.CountdownSnapshot)) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	emit(c.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			emit(c.Snapshot())
		}
	}
}

// Stop tears the task down. Safe to call multiple times; only the first call
// has effect, so repeated mount/unmount cycles cannot leak timers.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Remaining breaks the interval from now to target into days, hours, minutes
// and seconds. A target at or before now yields the terminal Started state.
func Remaining(now, target time.Time) domain.CountdownSnapshot {
	d := target.Sub(now)
	if d <= 0 {
		return domain.CountdownSnapshot{Started: true}
	}

	secs := int64(d / time.Second)

	return domain.CountdownSnapshot{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
	}
}
