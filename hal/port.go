package hal

// PinPort fans a byte out to individual pins: bit i drives pins[i].
type PinPort struct {
	pins      []OutputPin
	activeLow bool
}

// NewPinPort wraps pins (at most 8). activeLow inverts every line.
func NewPinPort(activeLow bool, pins ...OutputPin) *PinPort {
	if len(pins) > 8 {
		pins = pins[:8]
	}
	return &PinPort{pins: pins, activeLow: activeLow}
}

func (p *PinPort) Write(v uint8) {
	if p.activeLow {
		v = ^v
	}
	for i, pin := range p.pins {
		pin.Set(v&(1<<uint(i)) != 0)
	}
}

func (p *PinPort) Width() int { return len(p.pins) }
