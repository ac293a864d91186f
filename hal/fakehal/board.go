package fakehal

import (
	"aqtimer-go/hal"
	"aqtimer-go/types"
)

// Board bundles fakes with handles kept for tests and the simulator.
type Board struct {
	Segments  *Port
	Digits    *Port
	Buzzer    *Pin
	ADC       *ADC
	Momentary *Pin
	Latch     *Pin
	Timers    *Timers
}

// NewBoard builds a fake board on a virtual clock driven by Timers.Advance.
func NewBoard(p types.Pins) *Board {
	return &Board{
		Segments:  NewPort(64),
		Digits:    NewPort(64),
		Buzzer:    NewPin(p.Buzzer),
		ADC:       NewADC(),
		Momentary: NewPin(p.Momentary),
		Latch:     NewPin(p.Latch),
		Timers:    NewTimers(),
	}
}

// HAL exposes the fakes through the hal interfaces.
func (b *Board) HAL() *hal.Board {
	_ = b.Buzzer.ConfigureOutput(false)
	return &hal.Board{
		Name:      "fake",
		Segments:  b.Segments,
		Digits:    b.Digits,
		Buzzer:    b.Buzzer,
		ADC:       b.ADC,
		Momentary: b.Momentary,
		Latch:     b.Latch,
		Timers:    b.Timers,
		Now:       b.Timers.Now,
	}
}
