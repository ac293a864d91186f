package fakehal

import (
	"context"
	"sync"
	"time"

	"aqtimer-go/errcode"
)

// Timers is a hand-cranked hal.Timers: Advance runs every callback whose
// period elapsed, in registration order, as many times as it elapsed.
type Timers struct {
	mu      sync.Mutex
	entries []*timerEntry
	started bool
	now     time.Duration
}

type timerEntry struct {
	period time.Duration
	next   time.Duration
	fn     func()
}

func NewTimers() *Timers { return &Timers{} }

func (t *Timers) Every(period time.Duration, fn func()) error {
	if period <= 0 || fn == nil {
		return errcode.Wrap(errcode.InvalidConfig, "fakehal.Timers.Every", "period", nil)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errcode.Busy
	}
	t.entries = append(t.entries, &timerEntry{period: period, next: t.now + period, fn: fn})
	return nil
}

func (t *Timers) Start(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errcode.Busy
	}
	t.started = true
	return nil
}

// Now is the virtual clock; use it as hal.Board.Now.
func (t *Timers) Now() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

// Advance moves the virtual clock by d, firing due callbacks in time order.
func (t *Timers) Advance(d time.Duration) {
	t.mu.Lock()
	end := t.now + d
	t.mu.Unlock()
	for {
		t.mu.Lock()
		var due *timerEntry
		for _, e := range t.entries {
			if e.next <= end && (due == nil || e.next < due.next) {
				due = e
			}
		}
		if due == nil || !t.started {
			t.now = end
			t.mu.Unlock()
			return
		}
		t.now = due.next
		due.next += due.period
		fn := due.fn
		t.mu.Unlock()
		fn()
	}
}
