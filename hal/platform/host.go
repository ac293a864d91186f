//go:build !(rp2040 || rp2350)

package platform

import (
	"aqtimer-go/hal"
	"aqtimer-go/hal/fakehal"
	"aqtimer-go/types"
)

// OpenHost builds an in-memory board that runs in real time: fakes for
// every peripheral, ticker goroutines for the timers. The fakes are
// returned so a simulator can press buttons and set the ADC.
func OpenHost(cfg types.Config) (*hal.Board, *fakehal.Board) {
	fb := fakehal.NewBoard(cfg.Pins)
	b := fb.HAL()
	b.Name = "host"
	b.Timers = hal.NewTickerTimers()
	b.Now = hal.SinceBoot()
	return b, fb
}
