//go:build rp2040 || rp2350

package platform

import (
	"context"
	"device/arm"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"aqtimer-go/errcode"
	"aqtimer-go/hal"
	"aqtimer-go/types"
	"aqtimer-go/x/logx"
	"aqtimer-go/x/shmring"
)

// DefaultBoard names the preset this build expects.
const DefaultBoard = "pico"

const logRingSize = 1024

// Open configures the Pico's pins from cfg.Pins and returns the board.
func Open(cfg types.Config) (*hal.Board, error) {
	p := cfg.Pins
	if p.LogTX >= 0 {
		_ = uartx.UART0.Configure(uartx.UARTConfig{
			BaudRate: p.LogBaud,
			TX:       machine.Pin(p.LogTX),
			RX:       machine.Pin(p.LogRX),
		})
		// lines queue in RAM; the UART drains them off the main loop
		ring := shmring.New(logRingSize)
		logx.Output = ring
		go ring.Drain(uartx.UART0, nil)
	}

	seg, err := pins(p.Segments)
	if err != nil {
		return nil, err
	}
	dig, err := pins(p.Digits)
	if err != nil {
		return nil, err
	}
	segOut, err := outputs(cfg.Display.SegmentsActiveLow, seg)
	if err != nil {
		return nil, err
	}
	digOut, err := outputs(cfg.Display.DigitsActiveLow, dig)
	if err != nil {
		return nil, err
	}

	buzzer, err := pin(p.Buzzer)
	if err != nil {
		return nil, err
	}
	_ = buzzer.ConfigureOutput(false)
	momentary, err := pin(p.Momentary)
	if err != nil {
		return nil, err
	}
	latch, err := pin(p.Latch)
	if err != nil {
		return nil, err
	}

	adc, err := openADC(p.ADC)
	if err != nil {
		return nil, err
	}

	return &hal.Board{
		Name:      DefaultBoard,
		Segments:  hal.NewPinPort(cfg.Display.SegmentsActiveLow, segOut...),
		Digits:    hal.NewPinPort(cfg.Display.DigitsActiveLow, digOut...),
		Buzzer:    buzzer,
		ADC:       adc,
		Momentary: momentary,
		Latch:     latch,
		Timers:    &sysTickTimers{},
		Now:       hal.SinceBoot(),
	}, nil
}

func pins(ns []int) ([]hal.GPIOPin, error) {
	out := make([]hal.GPIOPin, len(ns))
	for i, n := range ns {
		p, err := pin(n)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// pin maps GP numbers directly to machine.Pin (GP0..GP28).
func pin(n int) (*rp2Pin, error) {
	if n < 0 || n > 28 {
		return nil, errcode.Wrap(errcode.UnknownPin, "platform.pin", "", nil)
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, nil
}

func openADC(n int) (hal.ADC, error) {
	if n < 26 || n > 29 {
		return nil, errcode.Wrap(errcode.UnknownPin, "platform.openADC", "not an ADC pin", nil)
	}
	machine.InitADC()
	a := machine.ADC{Pin: machine.Pin(n)}
	a.Configure(machine.ADCConfig{})
	return a, nil
}

// ---- GPIO ----

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull hal.Pull) error {
	var mode machine.PinMode
	switch pull {
	case hal.PullUp:
		mode = machine.PinInputPullup
	case hal.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// SetIRQ installs handler for the RP2 pin-change interrupt. The closure is
// built once here, not per interrupt.
func (r *rp2Pin) SetIRQ(edge hal.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e hal.Edge) machine.PinChange {
	switch e {
	case hal.EdgeRising:
		return machine.PinRising
	case hal.EdgeFalling:
		return machine.PinFalling
	case hal.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}

// ---- SysTick timers ----

const maxTimers = 4

// sysTickTimers multiplexes every registration onto the SysTick interrupt.
// The shortest period becomes the tick; longer periods must be whole
// multiples of it and run every div ticks.
type sysTickTimers struct {
	entries [maxTimers]sysEntry
	n       int
	started bool
}

type sysEntry struct {
	period time.Duration
	div    uint32
	count  uint32
	fn     func()
}

var activeTimers *sysTickTimers

func (t *sysTickTimers) Every(period time.Duration, fn func()) error {
	if period <= 0 || fn == nil {
		return errcode.Wrap(errcode.InvalidConfig, "sysTickTimers.Every", "period", nil)
	}
	if t.started {
		return errcode.Busy
	}
	if t.n == maxTimers {
		return errcode.Wrap(errcode.NoTimer, "sysTickTimers.Every", "all slots used", nil)
	}
	t.entries[t.n] = sysEntry{period: period, fn: fn}
	t.n++
	return nil
}

// Start programs SysTick. ctx is unused: the MCU never stops.
func (t *sysTickTimers) Start(context.Context) error {
	if t.started {
		return errcode.Busy
	}
	if t.n == 0 {
		return nil
	}
	base := t.entries[0].period
	for i := 1; i < t.n; i++ {
		if t.entries[i].period < base {
			base = t.entries[i].period
		}
	}
	for i := 0; i < t.n; i++ {
		e := &t.entries[i]
		if e.period%base != 0 {
			return errcode.Wrap(errcode.Unsupported, "sysTickTimers.Start", "period not a multiple of "+base.String(), nil)
		}
		e.div = uint32(e.period / base)
	}
	cycles := uint64(machine.CPUFrequency()) * uint64(base) / uint64(time.Second)
	if cycles == 0 || cycles > 1<<24 {
		return errcode.Wrap(errcode.Unsupported, "sysTickTimers.Start", "tick out of SysTick range", nil)
	}

	t.started = true
	activeTimers = t
	if err := arm.SetupSystemTimer(uint32(cycles)); err != nil {
		return errcode.Wrap(errcode.Error, "sysTickTimers.Start", "", err)
	}
	return nil
}

//go:export SysTick_Handler
func handleSysTick() {
	t := activeTimers
	if t == nil {
		return
	}
	for i := 0; i < t.n; i++ {
		e := &t.entries[i]
		e.count++
		if e.count >= e.div {
			e.count = 0
			e.fn()
		}
	}
}
