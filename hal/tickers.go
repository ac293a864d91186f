package hal

import (
	"context"
	"sync"
	"time"

	"aqtimer-go/errcode"
)

// TickerTimers implements Timers with one goroutine and time.Ticker per
// registration. Used on host and Linux boards.
type TickerTimers struct {
	mu      sync.Mutex
	entries []tickerEntry
	started bool
	wg      sync.WaitGroup
}

type tickerEntry struct {
	period time.Duration
	fn     func()
}

func NewTickerTimers() *TickerTimers { return &TickerTimers{} }

func (t *TickerTimers) Every(period time.Duration, fn func()) error {
	if period <= 0 || fn == nil {
		return errcode.Wrap(errcode.InvalidConfig, "TickerTimers.Every", "period", nil)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errcode.Busy
	}
	t.entries = append(t.entries, tickerEntry{period: period, fn: fn})
	return nil
}

func (t *TickerTimers) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return errcode.Busy
	}
	t.started = true
	entries := append([]tickerEntry(nil), t.entries...)
	t.mu.Unlock()

	for _, e := range entries {
		t.wg.Add(1)
		go func(e tickerEntry) {
			defer t.wg.Done()
			tk := time.NewTicker(e.period)
			defer tk.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tk.C:
					e.fn()
				}
			}
		}(e)
	}
	return nil
}

// Wait blocks until every ticker goroutine has exited.
func (t *TickerTimers) Wait() { t.wg.Wait() }
