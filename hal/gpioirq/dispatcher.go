// Package gpioirq turns raw button interrupts into debounced logical edges.
// The filtering runs inside the interrupt: one clock read, two atomic ops
// and a level read; no queues, no blocking, no allocation.
package gpioirq

import (
	"sync"
	"sync/atomic"
	"time"

	"aqtimer-go/errcode"
	"aqtimer-go/hal"
)

// MaxInputs bounds registrations; watches live in a fixed array so the ISR
// path never touches a map.
const MaxInputs = 4

type Dispatcher struct {
	now func() time.Duration

	mu     sync.Mutex
	inputs [MaxInputs]watch
	n      int

	bounces atomic.Uint32 // edges inside the debounce window
	glitch  atomic.Uint32 // edges whose level no longer matched on read
}

type watch struct {
	name     string
	pin      hal.IRQPin
	debounce time.Duration
	invert   bool
	handler  func()

	armed     atomic.Bool
	lastEvent atomic.Int64 // ns since boot of the last accepted edge, 0 = none
	accepted  atomic.Uint32
}

// New builds a dispatcher; now must be monotonic (hal.Board.Now).
func New(now func() time.Duration) *Dispatcher {
	if now == nil {
		now = hal.SinceBoot()
	}
	return &Dispatcher{now: now}
}

// Input describes one button.
type Input struct {
	Name     string
	Pin      hal.IRQPin
	Pull     hal.Pull
	Debounce time.Duration
	// Invert: pressed reads low (pull-up wiring).
	Invert bool
	// OnPress runs in interrupt context for each accepted press.
	OnPress func()
}

// Register configures the pin and arms a falling (Invert) or rising edge
// interrupt. The returned cancel clears the IRQ.
func (d *Dispatcher) Register(in Input) (cancel func(), err error) {
	if in.Pin == nil || in.OnPress == nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "gpioirq.Register", in.Name, nil)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.n == MaxInputs {
		return nil, errcode.Wrap(errcode.Busy, "gpioirq.Register", "no free input slot", nil)
	}
	if err := in.Pin.ConfigureInput(in.Pull); err != nil {
		return nil, errcode.Wrap(errcode.Of(err), "gpioirq.Register", in.Name, err)
	}

	// the slot is only claimed once the IRQ is armed
	w := &d.inputs[d.n]
	w.accepted.Store(0)
	w.name = in.Name
	w.pin = in.Pin
	w.debounce = in.Debounce
	w.invert = in.Invert
	w.handler = in.OnPress
	w.lastEvent.Store(0)
	w.armed.Store(true)

	edge := hal.EdgeRising
	if in.Invert {
		edge = hal.EdgeFalling
	}
	if err := in.Pin.SetIRQ(edge, func() { d.isr(w) }); err != nil {
		w.armed.Store(false)
		return nil, errcode.Wrap(errcode.Of(err), "gpioirq.Register", in.Name, err)
	}
	d.n++
	return func() {
		w.armed.Store(false)
		_ = w.pin.ClearIRQ()
	}, nil
}

func (d *Dispatcher) isr(w *watch) {
	if !w.armed.Load() {
		return
	}
	// The edge fired; confirm the line is still in the pressed state so a
	// release bounce that re-triggers the IRQ is not taken as a press.
	level := w.pin.Get()
	if w.invert {
		level = !level
	}
	if !level {
		d.glitch.Add(1)
		return
	}

	now := int64(d.now())
	if now == 0 {
		now = 1 // keep 0 as "never"
	}
	last := w.lastEvent.Load()
	if last != 0 && time.Duration(now-last) < w.debounce {
		d.bounces.Add(1)
		return
	}
	w.lastEvent.Store(now)
	w.accepted.Add(1)
	w.handler()
}

// Bounces counts edges suppressed by the debounce window.
func (d *Dispatcher) Bounces() uint32 { return d.bounces.Load() }

// Glitches counts edges that no longer read as pressed.
func (d *Dispatcher) Glitches() uint32 { return d.glitch.Load() }

// Accepted returns the accepted press count for a named input.
func (d *Dispatcher) Accepted(name string) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < d.n; i++ {
		if d.inputs[i].name == name {
			return d.inputs[i].accepted.Load()
		}
	}
	return 0
}
