// Package mode implements the two-button mode switch. OnMomentary and
// OnLatch run in interrupt context after debounce; Poll runs from the main
// loop and handles the momentary auto revert.
package mode

import (
	"sync/atomic"

	"aqtimer-go/services/state"
	"aqtimer-go/types"
)

// RevertAfter is the number of whole ticks AirQuality is held after a
// momentary press. Revert happens once tick-lastSwitch exceeds it.
const RevertAfter = 1

type Controller struct {
	st     *state.Shared
	policy types.Policy

	reverts atomic.Uint32
}

func New(st *state.Shared, policy types.Policy) *Controller {
	return &Controller{st: st, policy: policy}
}

func (c *Controller) Policy() types.Policy { return c.policy }

// OnMomentary handles a button 1 press.
func (c *Controller) OnMomentary() {
	if !c.policy.Momentary() {
		return
	}
	c.st.ShowAirQuality()
}

// OnLatch handles a button 2 press: one toggle per accepted edge.
func (c *Controller) OnLatch() {
	if !c.policy.Latching() {
		return
	}
	c.st.ToggleLatch()
}

// Poll reverts a momentary AirQuality view back to Timer. It reports
// whether it switched.
func (c *Controller) Poll() bool {
	if !c.policy.Momentary() || !c.st.RevertIfDue(RevertAfter) {
		return false
	}
	c.reverts.Add(1)
	return true
}

// Reverts counts automatic returns to Timer mode.
func (c *Controller) Reverts() uint32 { return c.reverts.Load() }
