// Package alarm drives the buzzer. Arm records the request in shared state;
// Service, called from the main loop, generates the square wave without
// blocking.
package alarm

import (
	"sync/atomic"
	"time"

	"aqtimer-go/hal"
	"aqtimer-go/services/state"
	"aqtimer-go/types"
	"aqtimer-go/x/timex"
)

// Default tones and duration.
const (
	DefaultCycles          = 100
	DefaultTimerHz         = 500
	DefaultConcentrationHz = 2000
)

type Controller struct {
	st     *state.Shared
	out    hal.OutputPin
	cycles uint16
	half   [3]time.Duration // by AlarmCause

	running bool
	high    bool
	next    time.Duration

	completed atomic.Uint32
}

func New(st *state.Shared, out hal.OutputPin, cfg types.AlarmConfig) *Controller {
	c := &Controller{st: st, out: out, cycles: cfg.Cycles}
	if c.cycles == 0 {
		c.cycles = DefaultCycles
	}
	c.half[types.CauseTimer] = timex.HalfPeriod(orDefault(cfg.TimerHz, DefaultTimerHz))
	c.half[types.CauseConcentration] = timex.HalfPeriod(orDefault(cfg.ConcentrationHz, DefaultConcentrationHz))
	c.half[types.CauseNone] = c.half[types.CauseTimer]
	return c
}

func orDefault(v, d uint32) uint32 {
	if v == 0 {
		return d
	}
	return v
}

// Arm (re)starts the alarm for cause. Remaining cycles are reset, never
// added to.
func (c *Controller) Arm(cause types.AlarmCause) { c.st.ArmAlarm(cause, c.cycles) }

// HalfPeriod returns the tone half-period used for cause.
func (c *Controller) HalfPeriod(cause types.AlarmCause) time.Duration {
	if int(cause) >= len(c.half) {
		return c.half[types.CauseTimer]
	}
	return c.half[cause]
}

// Service advances the tone generator to now and reports whether the
// buzzer is sounding. A full cycle is one high and one low half-period;
// each completed cycle consumes one from the armed count. Once the count
// reaches zero the output is held low.
func (c *Controller) Service(now time.Duration) bool {
	a := c.st.Alarm()
	if !a.Active() {
		c.silence()
		return false
	}
	half := c.HalfPeriod(a.Cause)
	if !c.running {
		c.running = true
		c.drive(true)
		c.next = now + half
		return true
	}
	if now < c.next {
		return true
	}

	if c.high {
		c.drive(false)
	} else {
		c.completed.Add(1)
		if c.st.CompleteAlarmCycle() == 0 {
			c.silence()
			return false
		}
		c.drive(true)
	}
	c.next += half
	// fell more than a half-period behind: restart the cadence from now
	if c.next <= now {
		c.next = now + half
	}
	return true
}

// Sounding reports whether Service is mid-tone.
func (c *Controller) Sounding() bool { return c.running }

// Completed counts full tone cycles since boot.
func (c *Controller) Completed() uint32 { return c.completed.Load() }

func (c *Controller) drive(level bool) {
	c.high = level
	c.out.Set(level)
}

func (c *Controller) silence() {
	if c.running || c.high {
		c.drive(false)
	}
	c.running = false
}
