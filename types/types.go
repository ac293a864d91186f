package types

import "aqtimer-go/errcode"

// ---- Operating mode ----

// Mode selects what the display shows. Stored as one machine word so ISRs
// and the main loop can load/store it atomically.
type Mode uint32

const (
	ModeTimer Mode = iota
	ModeAirQuality
)

func (m Mode) String() string {
	switch m {
	case ModeTimer:
		return "timer"
	case ModeAirQuality:
		return "air_quality"
	default:
		return "unknown"
	}
}

// ---- Mode switch policy ----

// Policy chooses how the two buttons drive Mode.
type Policy uint8

const (
	// PolicyCombined: button 1 is momentary (auto revert), button 2 latches.
	PolicyCombined Policy = iota
	// PolicyMomentary: button 1 only.
	PolicyMomentary
	// PolicyLatched: button 2 only.
	PolicyLatched
)

func (p Policy) String() string {
	switch p {
	case PolicyCombined:
		return "combined"
	case PolicyMomentary:
		return "momentary"
	case PolicyLatched:
		return "latched"
	default:
		return "unknown"
	}
}

func (p Policy) Momentary() bool { return p == PolicyCombined || p == PolicyMomentary }
func (p Policy) Latching() bool  { return p == PolicyCombined || p == PolicyLatched }

// ParsePolicy accepts the String() forms.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "combined", "":
		return PolicyCombined, nil
	case "momentary":
		return PolicyMomentary, nil
	case "latched":
		return PolicyLatched, nil
	}
	return PolicyCombined, errcode.Wrap(errcode.InvalidConfig, "ParsePolicy", "policy "+s, nil)
}

func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ---- Alarm ----

// AlarmCause records why the alarm was armed; it selects the tone.
type AlarmCause uint8

const (
	CauseNone AlarmCause = iota
	CauseTimer
	CauseConcentration
)

func (c AlarmCause) String() string {
	switch c {
	case CauseTimer:
		return "timer"
	case CauseConcentration:
		return "concentration"
	default:
		return "none"
	}
}

// Alarm is the armed state: cycles left and the cause of the last arm.
type Alarm struct {
	Remaining uint16
	Cause     AlarmCause
}

func (a Alarm) Active() bool { return a.Remaining > 0 }

// ---- Sensor ----

// Reading is one converted ADC sample. PPM is not clamped and may be
// negative below the calibration offset.
type Reading struct {
	Raw uint16
	PPM float32
}

// ---- Telemetry ----

// Snapshot is the retained state published once per telemetry interval.
type Snapshot struct {
	Mode      Mode
	Latched   bool
	Countdown uint32
	Reading   Reading
	Alarm     Alarm
	Tick      uint32

	Bounces  uint32 // edges suppressed by debounce
	Glitches uint32 // edges whose level did not match on entry
	Overruns uint32 // main-loop iterations over budget
}
