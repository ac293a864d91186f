// Package tick runs the 1 Hz coordinator: countdown, expiry, concentration
// breach and the monotonic tick counter used for relative timing.
package tick

import (
	"sync/atomic"

	"aqtimer-go/services/state"
	"aqtimer-go/types"
)

type Coordinator struct {
	st         *state.Shared
	warningPPM float32
	cycles     uint16

	expiries atomic.Uint32
	breaches atomic.Uint32
}

func New(st *state.Shared, cfg types.Config) *Coordinator {
	return &Coordinator{
		st:         st,
		warningPPM: cfg.WarningPPM,
		cycles:     cfg.Alarm.Cycles,
	}
}

// OnSecond runs from the 1 Hz timer interrupt. The timer branch is
// evaluated first and the concentration branch second, so when both arm in
// the same tick the concentration tone wins and the duration is not
// extended.
func (c *Coordinator) OnSecond() (expired, breached bool) {
	c.st.AdvanceTick()

	if c.st.StepCountdown(c.cycles) {
		c.expiries.Add(1)
		expired = true
	}
	if c.st.ArmIfAbove(c.warningPPM, c.cycles) {
		c.breaches.Add(1)
		breached = true
	}
	return expired, breached
}

// Expiries counts countdown expiries since boot.
func (c *Coordinator) Expiries() uint32 { return c.expiries.Load() }

// Breaches counts ticks that found the reading above the warning level.
func (c *Coordinator) Breaches() uint32 { return c.breaches.Load() }
