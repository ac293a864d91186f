package config

import (
	"time"

	"aqtimer-go/errcode"
	"aqtimer-go/types"
)

// Board presets live in flash. Each returns a fresh value so callers may
// modify the result.
var presets = map[string]func() types.Config{
	"pico": picoConfig,
	"rpi":  rpiConfig,
	"host": hostConfig,
}

// PresetLookup allows overriding how board presets are resolved.
var PresetLookup = func(board string) (types.Config, bool) {
	f, ok := presets[board]
	if !ok {
		return types.Config{}, false
	}
	return f(), true
}

// Boards lists the built-in presets.
func Boards() []string { return []string{"host", "pico", "rpi"} }

// ForBoard returns the validated preset for board.
func ForBoard(board string) (types.Config, error) {
	cfg, ok := PresetLookup(board)
	if !ok {
		return types.Config{}, errcode.Wrap(errcode.UnknownBoard, "config.ForBoard", board, nil)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Default is the Pico preset: 60 minute countdown, 200 ppm warning level,
// 5 V / 10-bit converter with 0.1 V offset and 0.02 V per ppm.
func Default() types.Config { return picoConfig() }

func picoConfig() types.Config {
	return types.Config{
		Board:          "pico",
		Policy:         types.PolicyCombined,
		WarningPPM:     200,
		CountdownStart: 3600,
		LoopBudget:     250 * time.Microsecond,
		Calibration: types.Calibration{
			FullScaleV:  5.0,
			OffsetV:     0.1,
			VoltsPerPPM: 0.02,
			Bits:        10,
			Oversample:  1,
		},
		Alarm: types.AlarmConfig{
			Cycles:          100,
			TimerHz:         500,
			ConcentrationHz: 2000,
		},
		Display: types.DisplayConfig{
			DigitPeriod: time.Millisecond,
			Select:      []uint8{0x08, 0x04, 0x02, 0x01},
		},
		Buttons: types.ButtonConfig{
			DebounceMs: 5,
			PullUp:     true,
		},
		Pins: types.Pins{
			Segments:  []int{2, 3, 4, 5, 6, 7, 8, 9},
			Digits:    []int{10, 11, 12, 13},
			Buzzer:    15,
			ADC:       26,
			Momentary: 16,
			Latch:     17,
			LogTX:     0,
			LogRX:     1,
			LogBaud:   115200,
		},
		Telemetry: types.TelemetryConfig{Interval: time.Second},
	}
}

// rpiConfig drives the same module from a Raspberry Pi header through the
// GPIO character device and an IIO converter on channel 0.
func rpiConfig() types.Config {
	c := picoConfig()
	c.Board = "rpi"
	c.LoopBudget = 2 * time.Millisecond
	c.Display.DigitPeriod = 2 * time.Millisecond
	c.Calibration.FullScaleV = 3.3
	c.Pins = types.Pins{
		Chip:      "gpiochip0",
		Segments:  []int{5, 6, 13, 19, 26, 16, 20, 21},
		Digits:    []int{17, 27, 22, 23},
		Buzzer:    18,
		ADC:       0,
		Momentary: 24,
		Latch:     25,
		LogTX:     -1,
		LogRX:     -1,
	}
	return c
}

func hostConfig() types.Config {
	c := picoConfig()
	c.Board = "host"
	c.LoopBudget = time.Millisecond
	c.Pins.LogTX, c.Pins.LogRX, c.Pins.LogBaud = -1, -1, 0
	return c
}
