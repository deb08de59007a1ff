package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/venuebook/bookgo/internal/domain"
)

func TestRemaining_Breakdown(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	target := now.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)

	snap := Remaining(now, target)

	assert.Equal(t, int64(2), snap.Days)
	assert.Equal(t, int64(3), snap.Hours)
	assert.Equal(t, int64(4), snap.Minutes)
	assert.Equal(t, int64(5), snap.Seconds)
	assert.False(t, snap.Started)
}

func TestRemaining_TerminalAtOrPastTarget(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, domain.CountdownSnapshot{Started: true}, Remaining(now, now))
	assert.Equal(t, domain.CountdownSnapshot{Started: true}, Remaining(now, now.Add(-time.Minute)))
}

func TestRun_EmitsAndStopsOnContextCancel(t *testing.T) {
	cd := New(time.Now().Add(time.Hour), WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	var emits atomic.Int64
	done := make(chan struct{})
	go func() {
		cd.Run(ctx, func(domain.CountdownSnapshot) { emits.Add(1) })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop on context cancel")
	}

	assert.GreaterOrEqual(t, emits.Load(), int64(2), "initial emit plus ticks")
}

func TestRun_KeepsTickingAfterTargetPassed(t *testing.T) {
	// Target in the past: cadence continues, every snapshot is terminal.
	cd := New(time.Now().Add(-time.Minute), WithInterval(10*time.Millisecond))
	defer cd.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	var emits atomic.Int64
	var nonTerminal atomic.Int64
	cd.Run(ctx, func(snap domain.CountdownSnapshot) {
		emits.Add(1)
		if !snap.Started {
			nonTerminal.Add(1)
		}
	})

	assert.GreaterOrEqual(t, emits.Load(), int64(2), "task must not stop itself early")
	assert.Equal(t, int64(0), nonTerminal.Load())
}

func TestStop_IsIdempotent(t *testing.T) {
	cd := New(time.Now().Add(time.Hour), WithInterval(10*time.Millisecond))

	done := make(chan struct{})
	go func() {
		cd.Run(context.Background(), func(domain.CountdownSnapshot) {})
		close(done)
	}()

	cd.Stop()
	cd.Stop()
	cd.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop")
	}
}

func TestSnapshot_UsesInjectedClock(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cd := New(now.Add(90*time.Second), WithNow(func() time.Time { return now }))

	snap := cd.Snapshot()

	assert.Equal(t, int64(1), snap.Minutes)
	assert.Equal(t, int64(30), snap.Seconds)
}
