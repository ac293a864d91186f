//go:build linux && gpiocdev && !(rp2040 || rp2350)

package platform

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"

	"aqtimer-go/errcode"
	"aqtimer-go/hal"
	"aqtimer-go/types"
)

const DefaultBoard = "rpi"

// IIODevice is the sysfs directory of the converter feeding Pins.ADC.
var IIODevice = "/sys/bus/iio/devices/iio:device0"

// Open requests every line on cfg.Pins.Chip. The returned board's Close
// releases them.
func Open(cfg types.Config) (b *hal.Board, err error) {
	p := cfg.Pins
	chip, err := gpiocdev.NewChip(p.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", p.Chip, err)
	}
	var closers []func() error
	defer func() {
		if err != nil {
			closeAll(closers)
			chip.Close()
		}
	}()

	seg, err := openPort(chip, p.Segments, cfg.Display.SegmentsActiveLow)
	if err != nil {
		return nil, fmt.Errorf("request segment lines: %w", err)
	}
	closers = append(closers, seg.lines.Close)
	dig, err := openPort(chip, p.Digits, cfg.Display.DigitsActiveLow)
	if err != nil {
		return nil, fmt.Errorf("request digit lines: %w", err)
	}
	closers = append(closers, dig.lines.Close)

	buzzLine, err := chip.RequestLine(p.Buzzer, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request buzzer line %d: %w", p.Buzzer, err)
	}
	closers = append(closers, buzzLine.Close)

	momentary := &cdevPin{chip: chip, n: p.Momentary}
	latch := &cdevPin{chip: chip, n: p.Latch}
	closers = append(closers, momentary.Close, latch.Close)

	adc := &iioADC{path: fmt.Sprintf("%s/in_voltage%d_raw", IIODevice, p.ADC), shift: 16 - cfg.Calibration.Bits}
	if _, err := os.Stat(adc.path); err != nil {
		return nil, errcode.Wrap(errcode.Unsupported, "platform.Open", "no IIO channel", err)
	}

	return &hal.Board{
		Name:      DefaultBoard,
		Segments:  seg,
		Digits:    dig,
		Buzzer:    &cdevOut{line: buzzLine},
		ADC:       adc,
		Momentary: momentary,
		Latch:     latch,
		Timers:    hal.NewTickerTimers(),
		Now:       hal.SinceBoot(),
		Close: func() error {
			err := closeAll(closers)
			return multierr.Append(err, chip.Close())
		},
	}, nil
}

func closeAll(fns []func() error) error {
	var err error
	for i := len(fns) - 1; i >= 0; i-- {
		err = multierr.Append(err, fns[i]())
	}
	return err
}

// ---- output port: one multi-line request ----

type cdevPort struct {
	lines *gpiocdev.Lines
	vals  []int
}

func openPort(chip *gpiocdev.Chip, offsets []int, activeLow bool) (*cdevPort, error) {
	opts := []gpiocdev.LinesReqOption{gpiocdev.AsOutput(make([]int, len(offsets))...)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	lines, err := chip.RequestLines(offsets, opts...)
	if err != nil {
		return nil, err
	}
	return &cdevPort{lines: lines, vals: make([]int, len(offsets))}, nil
}

// Write sets every line in one ioctl so digits change atomically.
func (p *cdevPort) Write(v uint8) {
	for i := range p.vals {
		p.vals[i] = int(v>>uint(i)) & 1
	}
	_ = p.lines.SetValues(p.vals)
}

type cdevOut struct{ line *gpiocdev.Line }

func (o *cdevOut) Set(level bool) {
	v := 0
	if level {
		v = 1
	}
	_ = o.line.SetValue(v)
}

// ---- input with edge events ----

// cdevPin re-requests its line whenever the configuration changes, since a
// character-device request fixes direction, bias and edge detection. mu
// serialises reconfiguration only; the event path reads through the slot.
type cdevPin struct {
	chip *gpiocdev.Chip
	n    int

	mu      sync.Mutex
	pull    hal.Pull
	line    lineSlot[*gpiocdev.Line]
	handler atomic.Pointer[func()]
}

func (c *cdevPin) request(opts ...gpiocdev.LineReqOption) error {
	// the offset must be released before it can be requested again
	_ = c.line.Swap(nil)
	switch c.pull {
	case hal.PullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case hal.PullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	default:
		opts = append(opts, gpiocdev.WithBiasDisabled)
	}
	l, err := c.chip.RequestLine(c.n, append([]gpiocdev.LineReqOption{gpiocdev.AsInput}, opts...)...)
	if err != nil {
		return errcode.Wrap(errcode.PinInUse, "cdevPin.request", strconv.Itoa(c.n), err)
	}
	return c.line.Swap(l)
}

func (c *cdevPin) ConfigureInput(pull hal.Pull) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pull = pull
	return c.request()
}

func (c *cdevPin) ConfigureOutput(bool) error {
	return errcode.Wrap(errcode.Unsupported, "cdevPin.ConfigureOutput", "input only", nil)
}

func (c *cdevPin) Set(bool) {}

func (c *cdevPin) Get() bool {
	l := c.line.Load()
	if l == nil {
		return false
	}
	v, err := l.Value()
	return err == nil && v != 0
}

func (c *cdevPin) Number() int { return c.n }

// SetIRQ requests edge events. Handlers run on the gpiocdev event goroutine.
func (c *cdevPin) SetIRQ(edge hal.Edge, handler func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler.Store(&handler)
	var det gpiocdev.LineReqOption
	switch edge {
	case hal.EdgeRising:
		det = gpiocdev.WithRisingEdge
	case hal.EdgeFalling:
		det = gpiocdev.WithFallingEdge
	case hal.EdgeBoth:
		det = gpiocdev.WithBothEdges
	default:
		return c.request()
	}
	return c.request(det, gpiocdev.WithEventHandler(c.onEvent))
}

func (c *cdevPin) onEvent(gpiocdev.LineEvent) {
	if h := c.handler.Load(); h != nil && *h != nil {
		(*h)()
	}
}

func (c *cdevPin) ClearIRQ() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler.Store(nil)
	return c.request()
}

func (c *cdevPin) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line.Swap(nil)
}

// ---- ADC over IIO sysfs ----

// iioADC reads in_voltageN_raw and left-justifies it to 16 bits. A failed
// read returns the previous sample and is reported by Err.
type iioADC struct {
	path  string
	shift uint8
	last  uint16
	err   error
}

func (a *iioADC) Get() uint16 {
	b, err := os.ReadFile(a.path)
	if err != nil {
		a.err = err
		return a.last
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 16)
	if err != nil {
		a.err = err
		return a.last
	}
	a.err = nil
	a.last = uint16(v) << a.shift
	return a.last
}

func (a *iioADC) Err() error { return a.err }
