package display

import (
	"sync/atomic"
	"time"

	"aqtimer-go/hal"
	"aqtimer-go/services/state"
	"aqtimer-go/types"
)

// Multiplexer lights one position per Step. Step is meant for the fast
// timer interrupt; Spin for boards that refresh from the main loop. Only
// one of them may drive a given Multiplexer.
type Multiplexer struct {
	seg, sel hal.PortWriter
	st       *state.Shared
	selects  [Digits]uint8

	pos   int
	frame Frame

	// Hold busy-waits between Spin steps.
	Hold func(time.Duration)

	frames atomic.Uint32
}

// NewMultiplexer uses DefaultSelect when sel has fewer than Digits entries.
func NewMultiplexer(seg, digits hal.PortWriter, st *state.Shared, sel []uint8) *Multiplexer {
	m := &Multiplexer{seg: seg, sel: digits, st: st, selects: DefaultSelect}
	if len(sel) >= Digits {
		copy(m.selects[:], sel)
	}
	m.Hold = spinFor(hal.SinceBoot())
	return m
}

// Step blanks the select lines, writes the segments for the current
// position, then selects it. The frame is re-rendered at position 0 so a
// frame never mixes two values.
func (m *Multiplexer) Step() {
	if m.pos == 0 {
		m.frame = m.render()
		m.frames.Add(1)
	}
	m.sel.Write(0)
	m.seg.Write(m.frame[m.pos])
	m.sel.Write(m.selects[m.pos])
	m.pos++
	if m.pos == Digits {
		m.pos = 0
	}
}

// Spin runs n full frames, holding each position for period.
func (m *Multiplexer) Spin(n int, period time.Duration) {
	for i := 0; i < n*Digits; i++ {
		m.Step()
		m.Hold(period)
	}
}

// Blank turns every position off.
func (m *Multiplexer) Blank() {
	m.sel.Write(0)
	m.seg.Write(0)
}

// Frames counts frames started since boot.
func (m *Multiplexer) Frames() uint32 { return m.frames.Load() }

// Current returns the frame being shown. Not for use concurrently with Step.
func (m *Multiplexer) Current() Frame { return m.frame }

func (m *Multiplexer) render() Frame {
	mode := m.st.Mode()
	if mode == types.ModeTimer {
		return Render(mode, m.st.Countdown(), 0)
	}
	return Render(mode, 0, m.st.Reading().PPM)
}

func spinFor(now func() time.Duration) func(time.Duration) {
	return func(d time.Duration) {
		end := now() + d
		for now() < end {
		}
	}
}
