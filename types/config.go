package types

import "time"

// Config is fixed at boot. Calibration is never changed at runtime.
type Config struct {
	Board          string        `yaml:"board"`
	Policy         Policy        `yaml:"policy"`
	WarningPPM     float32       `yaml:"warning_ppm"`
	CountdownStart uint32        `yaml:"countdown_start"`
	LoopBudget     time.Duration `yaml:"loop_budget"`

	Calibration Calibration     `yaml:"calibration"`
	Alarm       AlarmConfig     `yaml:"alarm"`
	Display     DisplayConfig   `yaml:"display"`
	Buttons     ButtonConfig    `yaml:"buttons"`
	Pins        Pins            `yaml:"pins"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

// Calibration converts raw samples: v = raw*FullScaleV/2^Bits,
// ppm = (v-OffsetV)/VoltsPerPPM.
type Calibration struct {
	FullScaleV  float32 `yaml:"full_scale_v"`
	OffsetV     float32 `yaml:"offset_v"`
	VoltsPerPPM float32 `yaml:"volts_per_ppm"`
	Bits        uint8   `yaml:"bits"`
	Oversample  uint8   `yaml:"oversample"` // 0/1 = single sample
}

type AlarmConfig struct {
	Cycles          uint16 `yaml:"cycles"`
	TimerHz         uint32 `yaml:"timer_hz"`
	ConcentrationHz uint32 `yaml:"concentration_hz"`
}

type DisplayConfig struct {
	DigitPeriod time.Duration `yaml:"digit_period"` // one multiplex step
	Select      []uint8       `yaml:"select"`       // one-hot pattern per position
	BusyWait    bool          `yaml:"busy_wait"`    // refresh from the main loop
	// Common-anode modules drive segments/digits low.
	SegmentsActiveLow bool `yaml:"segments_active_low"`
	DigitsActiveLow   bool `yaml:"digits_active_low"`
}

type ButtonConfig struct {
	DebounceMs uint16 `yaml:"debounce_ms"`
	PullUp     bool   `yaml:"pull_up"`
}

// Pins are board GPIO numbers (Linux: line offsets on Chip).
type Pins struct {
	Chip      string `yaml:"chip"`
	Segments  []int  `yaml:"segments"` // a..g, dp
	Digits    []int  `yaml:"digits"`   // select bit 0..3
	Buzzer    int    `yaml:"buzzer"`
	ADC       int    `yaml:"adc"` // ADC input pin (MCU) or IIO channel (Linux)
	Momentary int    `yaml:"momentary"`
	Latch     int    `yaml:"latch"`
	LogTX     int    `yaml:"log_tx"`
	LogRX     int    `yaml:"log_rx"`
	LogBaud   uint32 `yaml:"log_baud"`
}

type TelemetryConfig struct {
	Interval time.Duration `yaml:"interval"`
}
