//go:build !(rp2040 || rp2350)

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aqtimer-go/types"
)

// Load reads a YAML overlay on top of the preset named by its board field
// (host when absent). A missing file yields the host preset.
func Load(filename string) (types.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return ForBoard("host")
		}
		return types.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var head struct {
		Board string `yaml:"board"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return types.Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if head.Board == "" {
		head.Board = "host"
	}
	cfg, err := ForBoard(head.Board)
	if err != nil {
		return types.Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	ensureDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(filename string, cfg types.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ensureDefaults restores zero values an overlay may have cleared.
func ensureDefaults(c *types.Config) {
	def, ok := PresetLookup(c.Board)
	if !ok {
		def = Default()
	}
	if c.CountdownStart == 0 {
		c.CountdownStart = def.CountdownStart
	}
	if c.LoopBudget == 0 {
		c.LoopBudget = def.LoopBudget
	}
	if c.Calibration.FullScaleV == 0 {
		c.Calibration.FullScaleV = def.Calibration.FullScaleV
	}
	if c.Calibration.VoltsPerPPM == 0 {
		c.Calibration.VoltsPerPPM = def.Calibration.VoltsPerPPM
	}
	if c.Calibration.Bits == 0 {
		c.Calibration.Bits = def.Calibration.Bits
	}
	if c.Alarm.Cycles == 0 {
		c.Alarm.Cycles = def.Alarm.Cycles
	}
	if c.Alarm.TimerHz == 0 {
		c.Alarm.TimerHz = def.Alarm.TimerHz
	}
	if c.Alarm.ConcentrationHz == 0 {
		c.Alarm.ConcentrationHz = def.Alarm.ConcentrationHz
	}
	if c.Display.DigitPeriod == 0 {
		c.Display.DigitPeriod = def.Display.DigitPeriod
	}
	if len(c.Display.Select) == 0 {
		c.Display.Select = def.Display.Select
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = def.Telemetry.Interval
	}
}
