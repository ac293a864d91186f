package display

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqtimer-go/hal/fakehal"
	"aqtimer-go/services/state"
	"aqtimer-go/types"
)

func digits(ds ...uint32) Frame {
	var f Frame
	for i, d := range ds {
		f[i] = Pattern(d)
	}
	return f
}

func TestRenderTimer(t *testing.T) {
	tests := []struct {
		countdown uint32
		want      Frame
	}{
		{125, digits(0, 2, 0, 5)},
		{3600, digits(6, 0, 0, 0)},
		{0, digits(0, 0, 0, 0)},
		{59, digits(0, 0, 5, 9)},
		{6000, digits(0, 0, 0, 0)}, // 100 minutes wraps
	}
	for _, tt := range tests {
		tt.want[SeparatorPos] |= Separator
		got := Render(types.ModeTimer, tt.countdown, 0)
		assert.Equal(t, tt.want, got, "countdown %d", tt.countdown)
	}
}

func TestRenderAirQuality(t *testing.T) {
	tests := []struct {
		name string
		ppm  float32
		want Frame
	}{
		{"1234", 1234, digits(1, 2, 3, 4)},
		{"truncates", 244.76, digits(0, 2, 4, 4)},
		{"wraps above 9999", 12345, digits(2, 3, 4, 5)},
		// -5 as uint32 is 4294967291
		{"negative", -5, digits(7, 2, 9, 1)},
		{"small negative truncates to zero", -0.5, digits(0, 0, 0, 0)},
		{"nan", float32(math.NaN()), digits(0, 0, 0, 0)},
		{"inf", float32(math.Inf(1)), digits(0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(types.ModeAirQuality, 0, tt.ppm)
			assert.Equal(t, tt.want, got)
			for _, p := range got {
				assert.Zero(t, p&Separator, "no separator outside timer mode")
			}
		})
	}
}

func newMux(t *testing.T) (*Multiplexer, *fakehal.Port, *fakehal.Port, *state.Shared) {
	t.Helper()
	seg, sel := fakehal.NewPort(64), fakehal.NewPort(64)
	st := state.New(3600)
	return NewMultiplexer(seg, sel, st, nil), seg, sel, st
}

func TestStepSelectsEachPositionOnce(t *testing.T) {
	m, seg, sel, st := newMux(t)
	st.SetCountdown(125)

	// start at an arbitrary offset: any 4 consecutive steps cover all
	m.Step()
	sel.Reset()
	seg.Reset()
	for i := 0; i < Digits; i++ {
		m.Step()
	}

	var picked []uint8
	for i, v := range sel.Writes() {
		if i%2 == 0 {
			require.Zero(t, v, "select blanked before segments")
			continue
		}
		picked = append(picked, v)
	}
	assert.ElementsMatch(t, DefaultSelect[:], picked)
	require.Len(t, seg.Writes(), Digits)
}

func TestStepWritesFrameInOrder(t *testing.T) {
	m, seg, _, st := newMux(t)
	st.SetCountdown(125)
	for i := 0; i < Digits; i++ {
		m.Step()
	}
	want := Render(types.ModeTimer, 125, 0)
	assert.Equal(t, want[:], seg.Writes())
	assert.Equal(t, uint32(1), m.Frames())
}

func TestModeSwitchAppliesAtNextFrame(t *testing.T) {
	m, seg, _, st := newMux(t)
	st.SetCountdown(125)
	st.SetReading(types.Reading{Raw: 800, PPM: 1234})

	m.Step()
	m.Step()
	st.SetMode(types.ModeAirQuality)
	m.Step()
	m.Step()
	timer := Render(types.ModeTimer, 125, 0)
	assert.Equal(t, timer[:], seg.Writes(), "frame in progress keeps its value")

	seg.Reset()
	for i := 0; i < Digits; i++ {
		m.Step()
	}
	assert.Equal(t, []uint8{Pattern(1), Pattern(2), Pattern(3), Pattern(4)}, seg.Writes())
}

func TestCustomSelectTable(t *testing.T) {
	seg, sel := fakehal.NewPort(0), fakehal.NewPort(16)
	m := NewMultiplexer(seg, sel, state.New(3600), []uint8{0x01, 0x02, 0x04, 0x08})
	m.Step()
	assert.Equal(t, []uint8{0, 0x01}, sel.Writes())
}

func TestSpinHoldsEachStep(t *testing.T) {
	m, seg, _, _ := newMux(t)
	var held []time.Duration
	m.Hold = func(d time.Duration) { held = append(held, d) }

	m.Spin(2, time.Millisecond)
	require.Len(t, held, 2*Digits)
	for _, d := range held {
		assert.Equal(t, time.Millisecond, d)
	}
	assert.Len(t, seg.Writes(), 2*Digits)
	assert.Equal(t, uint32(2), m.Frames())
}

func TestBlank(t *testing.T) {
	m, seg, sel, _ := newMux(t)
	m.Step()
	m.Blank()
	assert.Zero(t, seg.Last())
	assert.Zero(t, sel.Last())
}
