package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqtimer-go/hal/fakehal"
	"aqtimer-go/services/state"
	"aqtimer-go/types"
)

var cfg = types.AlarmConfig{Cycles: 100, TimerHz: 500, ConcentrationHz: 2000}

type rig struct {
	st  *state.Shared
	pin *fakehal.Pin
	c   *Controller
	now time.Duration
}

func newRig() *rig {
	st := state.New(3600)
	pin := fakehal.NewPin(15)
	_ = pin.ConfigureOutput(false)
	return &rig{st: st, pin: pin, c: New(st, pin, cfg)}
}

// run services the controller every step until silent or limit elapses,
// counting rising edges.
func (r *rig) run(step, limit time.Duration) (rises int) {
	end := r.now + limit
	prev := r.pin.Get()
	for r.now <= end {
		on := r.c.Service(r.now)
		lvl := r.pin.Get()
		if lvl && !prev {
			rises++
		}
		prev = lvl
		if !on {
			return rises
		}
		r.now += step
	}
	return rises
}

func TestHalfPeriods(t *testing.T) {
	c := New(state.New(1), fakehal.NewPin(0), cfg)
	assert.Equal(t, time.Millisecond, c.HalfPeriod(types.CauseTimer))
	assert.Equal(t, 250*time.Microsecond, c.HalfPeriod(types.CauseConcentration))
}

func TestDefaultsWhenUnset(t *testing.T) {
	c := New(state.New(1), fakehal.NewPin(0), types.AlarmConfig{})
	assert.Equal(t, time.Millisecond, c.HalfPeriod(types.CauseTimer))
	assert.Equal(t, uint16(DefaultCycles), c.cycles)
}

func TestExactlyCyclesThenSilent(t *testing.T) {
	for _, cause := range []types.AlarmCause{types.CauseTimer, types.CauseConcentration} {
		t.Run(cause.String(), func(t *testing.T) {
			r := newRig()
			r.c.Arm(cause)

			rises := r.run(50*time.Microsecond, time.Second)
			require.Equal(t, 100, rises)
			require.False(t, r.pin.Get(), "output low after the last cycle")
			require.False(t, r.st.Alarm().Active())
			require.Equal(t, uint32(100), r.c.Completed())
			require.Equal(t, uint32(200), r.pin.Toggles())

			// stays silent
			r.now += time.Second
			require.False(t, r.c.Service(r.now))
			require.Equal(t, uint32(200), r.pin.Toggles())
		})
	}
}

func TestToneDuration(t *testing.T) {
	r := newRig()
	r.c.Arm(types.CauseTimer)
	start := r.now
	r.run(10*time.Microsecond, time.Second)
	// 100 cycles at 2 ms
	assert.InDelta(t, float64(200*time.Millisecond), float64(r.now-start), float64(20*time.Microsecond))
}

func TestRearmResetsNotAccumulates(t *testing.T) {
	r := newRig()
	r.c.Arm(types.CauseTimer)
	r.c.Arm(types.CauseConcentration)
	require.Equal(t, types.Alarm{Remaining: 100, Cause: types.CauseConcentration}, r.st.Alarm())

	rises := r.run(50*time.Microsecond, time.Second)
	require.Equal(t, 100, rises)
}

func TestRearmMidToneRestartsCount(t *testing.T) {
	r := newRig()
	r.c.Arm(types.CauseTimer)
	// 10 cycles at 2 ms plus a little
	r.run(50*time.Microsecond, 21*time.Millisecond)
	require.Equal(t, uint16(90), r.st.Alarm().Remaining)

	r.c.Arm(types.CauseTimer)
	require.Equal(t, uint16(100), r.st.Alarm().Remaining)
	r.run(50*time.Microsecond, time.Second)
	require.Equal(t, uint32(110), r.c.Completed())
}

func TestLateServiceResynchronises(t *testing.T) {
	r := newRig()
	r.c.Arm(types.CauseTimer)
	require.True(t, r.c.Service(0))
	// main loop stalls for 10 ms; only one edge is produced
	require.True(t, r.c.Service(10*time.Millisecond))
	assert.Equal(t, uint32(2), r.pin.Toggles())
	assert.False(t, r.pin.Get())
	assert.True(t, r.c.Service(11*time.Millisecond))
	assert.True(t, r.pin.Get())
}

func TestIdleDoesNothing(t *testing.T) {
	r := newRig()
	require.False(t, r.c.Service(0))
	require.False(t, r.c.Sounding())
	require.Zero(t, r.pin.Toggles())
}
