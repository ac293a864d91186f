// Package hal is the hardware boundary of the firmware: parallel output
// ports for the display, the buzzer pin, the ADC, button interrupts and
// periodic timer services. Concrete boards live in hal/platform; host fakes
// in hal/fakehal.
package hal

import (
	"context"
	"time"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// OutputPin is a single digital output (the buzzer).
type OutputPin interface {
	Set(level bool)
}

type GPIOPin interface {
	OutputPin
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Get() bool
	Number() int
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on MCU builds and must not block or allocate.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PortWriter drives up to 8 lines at once (segment data, digit select).
type PortWriter interface {
	Write(v uint8)
}

// ADC returns one conversion, left-justified to 16 bits as TinyGo's
// machine.ADC does. Blocks only for the hardware conversion time.
type ADC interface {
	Get() uint16
}

// FallibleADC is implemented by converters whose reads can fail (IIO sysfs).
// Err reports the failure of the most recent Get, nil after a good read.
type FallibleADC interface {
	ADC
	Err() error
}

// Timers delivers periodic callbacks. On MCU builds callbacks run in
// interrupt context.
type Timers interface {
	// Every registers fn to run once per period. Must be called before Start.
	Every(period time.Duration, fn func()) error
	// Start begins delivery; callbacks stop when ctx is done (host builds).
	Start(ctx context.Context) error
}

// Board is the set of peripherals the firmware runs against.
type Board struct {
	Name      string
	Segments  PortWriter
	Digits    PortWriter
	Buzzer    OutputPin
	ADC       ADC
	Momentary IRQPin
	Latch     IRQPin
	Timers    Timers
	// Now is a monotonic clock since boot.
	Now func() time.Duration
	// Close releases host resources; nil on MCU boards.
	Close func() error
}

// SinceBoot returns a monotonic clock anchored at the call.
func SinceBoot() func() time.Duration {
	t0 := time.Now()
	return func() time.Duration { return time.Since(t0) }
}
