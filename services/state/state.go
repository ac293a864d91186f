// Package state owns every variable shared between interrupt handlers and
// the main loop. Fields are unexported; each accessor applies the access
// discipline for its width:
//
//	mode, latched, tick, lastSwitch   single word   sync/atomic
//	mode with latched or lastSwitch   composite     critical section
//	countdown (check+reset+arm)       composite     critical section
//	reading (raw + ppm)               two words     critical section
//	alarm (remaining + cause)         two words     critical section
//
// None of the accessors allocate, so they are safe in interrupt context.
package state

import (
	"sync/atomic"

	"aqtimer-go/types"
	"aqtimer-go/x/critical"
	"aqtimer-go/x/timex"
)

type Shared struct {
	mode       atomic.Uint32
	latched    atomic.Bool
	tick       atomic.Uint32
	lastSwitch atomic.Uint32

	// guarded by critical.Enter/Exit
	start     uint32
	countdown uint32
	reading   types.Reading
	alarm     types.Alarm
}

// New returns state at power-on: Timer mode, countdown full, alarm idle.
func New(countdownStart uint32) *Shared {
	s := &Shared{start: countdownStart, countdown: countdownStart}
	s.mode.Store(uint32(types.ModeTimer))
	return s
}

// ---- single-word values ----

func (s *Shared) Mode() types.Mode     { return types.Mode(s.mode.Load()) }
func (s *Shared) SetMode(m types.Mode) { s.mode.Store(uint32(m)) }

func (s *Shared) Latched() bool { return s.latched.Load() }

// ToggleLatch flips the latch and sets the matching mode in one section:
// AirQuality when latched, Timer when released. Returns the new latch.
func (s *Shared) ToggleLatch() bool {
	cs := critical.Enter()
	on := !s.latched.Load()
	s.latched.Store(on)
	if on {
		s.mode.Store(uint32(types.ModeAirQuality))
	} else {
		s.mode.Store(uint32(types.ModeTimer))
	}
	critical.Exit(cs)
	return on
}

// ShowAirQuality records a momentary switch at the current tick.
func (s *Shared) ShowAirQuality() {
	cs := critical.Enter()
	s.lastSwitch.Store(s.tick.Load())
	s.mode.Store(uint32(types.ModeAirQuality))
	critical.Exit(cs)
}

// RevertIfDue returns an unlatched AirQuality view to Timer once more than
// after ticks have passed since the last switch. Check and set share one
// section so a latch or a fresh press cannot land in between.
func (s *Shared) RevertIfDue(after uint32) (reverted bool) {
	cs := critical.Enter()
	if !s.latched.Load() &&
		types.Mode(s.mode.Load()) == types.ModeAirQuality &&
		timex.Elapsed(s.tick.Load(), s.lastSwitch.Load()) > after {
		s.mode.Store(uint32(types.ModeTimer))
		reverted = true
	}
	critical.Exit(cs)
	return reverted
}

func (s *Shared) Tick() uint32 { return s.tick.Load() }

// AdvanceTick increments the 1 Hz counter and returns the new count.
func (s *Shared) AdvanceTick() uint32 { return s.tick.Add(1) }

func (s *Shared) LastSwitch() uint32     { return s.lastSwitch.Load() }
func (s *Shared) MarkSwitch(tick uint32) { s.lastSwitch.Store(tick) }

// ---- composite values ----

func (s *Shared) CountdownStart() uint32 { return s.start }

func (s *Shared) Countdown() uint32 {
	cs := critical.Enter()
	v := s.countdown
	critical.Exit(cs)
	return v
}

// SetCountdown is for tests and the simulator.
func (s *Shared) SetCountdown(v uint32) {
	cs := critical.Enter()
	s.countdown = v
	critical.Exit(cs)
}

// StepCountdown decrements the countdown; at zero it instead reloads the
// start value and arms the timer alarm, all in one section so no reader
// sees the reload without the arm.
func (s *Shared) StepCountdown(alarmCycles uint16) (expired bool) {
	cs := critical.Enter()
	if s.countdown > 0 {
		s.countdown--
	} else {
		s.countdown = s.start
		s.alarm = types.Alarm{Remaining: alarmCycles, Cause: types.CauseTimer}
		expired = true
	}
	critical.Exit(cs)
	return expired
}

func (s *Shared) Reading() types.Reading {
	cs := critical.Enter()
	r := s.reading
	critical.Exit(cs)
	return r
}

func (s *Shared) SetReading(r types.Reading) {
	cs := critical.Enter()
	s.reading = r
	critical.Exit(cs)
}

// ArmIfAbove arms the concentration alarm when the committed reading
// exceeds warnPPM.
func (s *Shared) ArmIfAbove(warnPPM float32, alarmCycles uint16) (armed bool) {
	cs := critical.Enter()
	if s.reading.PPM > warnPPM {
		s.alarm = types.Alarm{Remaining: alarmCycles, Cause: types.CauseConcentration}
		armed = true
	}
	critical.Exit(cs)
	return armed
}

func (s *Shared) Alarm() types.Alarm {
	cs := critical.Enter()
	a := s.alarm
	critical.Exit(cs)
	return a
}

// ArmAlarm resets the remaining cycles; re-arming never accumulates.
func (s *Shared) ArmAlarm(cause types.AlarmCause, cycles uint16) {
	cs := critical.Enter()
	s.alarm = types.Alarm{Remaining: cycles, Cause: cause}
	critical.Exit(cs)
}

// CompleteAlarmCycle consumes one tone cycle and returns what is left.
func (s *Shared) CompleteAlarmCycle() uint16 {
	cs := critical.Enter()
	if s.alarm.Remaining > 0 {
		s.alarm.Remaining--
	}
	r := s.alarm.Remaining
	critical.Exit(cs)
	return r
}

// Snapshot copies everything in one section. Counters owned by other
// components are left zero for the caller to fill.
func (s *Shared) Snapshot() types.Snapshot {
	var snap types.Snapshot
	critical.Do(func() {
		snap.Countdown = s.countdown
		snap.Reading = s.reading
		snap.Alarm = s.alarm
	})
	snap.Mode = s.Mode()
	snap.Latched = s.Latched()
	snap.Tick = s.Tick()
	return snap
}
