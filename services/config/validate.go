package config

import (
	"time"

	"github.com/chewxy/math32"

	"aqtimer-go/errcode"
	"aqtimer-go/types"
	"aqtimer-go/x/mathx"
)

// Limits enforced by Validate.
const (
	MaxCountdown   = 99*60 + 59 // largest mm:ss the display can show
	MaxToneHz      = 20000
	MaxDebounceMs  = 50
	MaxCalBits     = 16
	MaxOversample  = 64
	MinDigitPeriod = 100 * time.Microsecond
)

func invalid(field string) error {
	return errcode.Wrap(errcode.InvalidConfig, "config.Validate", field, nil)
}

func finite(f float32) bool { return !math32.IsNaN(f) && !math32.IsInf(f, 0) }

// Validate checks cfg and returns the first problem as an
// errcode.InvalidConfig error naming the field.
func Validate(cfg types.Config) error {
	if cfg.Policy > types.PolicyLatched {
		return invalid("policy")
	}
	if !finite(cfg.WarningPPM) {
		return invalid("warning_ppm")
	}
	if !mathx.Between(cfg.CountdownStart, 1, MaxCountdown) {
		return invalid("countdown_start")
	}
	if cfg.LoopBudget <= 0 {
		return invalid("loop_budget")
	}

	cal := cfg.Calibration
	if !finite(cal.FullScaleV) || cal.FullScaleV <= 0 {
		return invalid("calibration.full_scale_v")
	}
	if !finite(cal.OffsetV) {
		return invalid("calibration.offset_v")
	}
	if !finite(cal.VoltsPerPPM) || cal.VoltsPerPPM == 0 {
		return invalid("calibration.volts_per_ppm")
	}
	if !mathx.Between(cal.Bits, 1, MaxCalBits) {
		return invalid("calibration.bits")
	}
	if cal.Oversample > MaxOversample {
		return invalid("calibration.oversample")
	}

	if cfg.Alarm.Cycles == 0 {
		return invalid("alarm.cycles")
	}
	if !mathx.Between(cfg.Alarm.TimerHz, 1, MaxToneHz) {
		return invalid("alarm.timer_hz")
	}
	if !mathx.Between(cfg.Alarm.ConcentrationHz, 1, MaxToneHz) {
		return invalid("alarm.concentration_hz")
	}

	if cfg.Display.DigitPeriod < MinDigitPeriod {
		return invalid("display.digit_period")
	}
	if len(cfg.Display.Select) != 4 {
		return invalid("display.select")
	}
	for _, s := range cfg.Display.Select {
		if s == 0 {
			return invalid("display.select")
		}
	}
	if cfg.Buttons.DebounceMs > MaxDebounceMs {
		return invalid("buttons.debounce_ms")
	}
	if cfg.Telemetry.Interval < 0 {
		return invalid("telemetry.interval")
	}
	return validatePins(cfg.Pins)
}

func validatePins(p types.Pins) error {
	if !mathx.Between(len(p.Segments), 7, 8) {
		return invalid("pins.segments")
	}
	if len(p.Digits) != 4 {
		return invalid("pins.digits")
	}
	seen := make(map[int]string, 16)
	claim := func(n int, name string) error {
		if n < 0 {
			return errcode.Wrap(errcode.UnknownPin, "config.Validate", name, nil)
		}
		if prev, dup := seen[n]; dup {
			return errcode.Wrap(errcode.PinInUse, "config.Validate", name+" and "+prev, nil)
		}
		seen[n] = name
		return nil
	}
	for _, n := range p.Segments {
		if err := claim(n, "pins.segments"); err != nil {
			return err
		}
	}
	for _, n := range p.Digits {
		if err := claim(n, "pins.digits"); err != nil {
			return err
		}
	}
	for _, x := range []struct {
		n    int
		name string
	}{
		{p.Buzzer, "pins.buzzer"},
		{p.Momentary, "pins.momentary"},
		{p.Latch, "pins.latch"},
	} {
		if err := claim(x.n, x.name); err != nil {
			return err
		}
	}
	// On Linux the ADC is an IIO channel, not a line on the chip.
	if p.Chip == "" {
		if err := claim(p.ADC, "pins.adc"); err != nil {
			return err
		}
		for _, x := range []struct {
			n    int
			name string
		}{{p.LogTX, "pins.log_tx"}, {p.LogRX, "pins.log_rx"}} {
			if x.n < 0 {
				continue // log UART disabled
			}
			if err := claim(x.n, x.name); err != nil {
				return err
			}
		}
	}
	return nil
}
