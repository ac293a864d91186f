package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqtimer-go/bus"
	"aqtimer-go/errcode"
	"aqtimer-go/hal"
	"aqtimer-go/hal/fakehal"
	"aqtimer-go/services/config"
	"aqtimer-go/services/display"
	"aqtimer-go/services/telemetry"
	"aqtimer-go/types"
)

func newApp(t *testing.T, mut func(*types.Config)) (*App, *fakehal.Board) {
	t.Helper()
	cfg, err := config.ForBoard("host")
	require.NoError(t, err)
	cfg.WarningPPM = 240
	if mut != nil {
		mut(&cfg)
	}
	fb := fakehal.NewBoard(cfg.Pins)
	a, err := New(cfg, fb.HAL(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.Start(ctx))
	return a, fb
}

func lastFrame(p *fakehal.Port) []uint8 {
	w := p.Writes()
	return w[len(w)-display.Digits:]
}

func TestCountdownDrivesDisplay(t *testing.T) {
	a, fb := newApp(t, nil)

	fb.Timers.Advance(time.Second)
	require.Equal(t, uint32(3599), a.State.Countdown())
	require.Equal(t, uint32(1), a.State.Tick())

	fb.Timers.Advance(4 * time.Millisecond)
	want := display.Render(types.ModeTimer, 3599, 0)
	assert.Equal(t, want, a.Display.Current())
	assert.Equal(t, want[:], lastFrame(fb.Segments))
}

func TestMomentaryShowsConcentrationThenReverts(t *testing.T) {
	a, fb := newApp(t, nil)
	fb.ADC.SetRaw(500) // 117.07 ppm
	a.Iterate()

	fb.Momentary.Press()
	require.Equal(t, types.ModeAirQuality, a.State.Mode())
	a.Iterate()

	fb.Timers.Advance(4 * time.Millisecond)
	want := display.Render(types.ModeAirQuality, 0, 117.07)
	assert.Equal(t, display.Frame{display.Pattern(0), display.Pattern(1), display.Pattern(1), display.Pattern(7)}, want)
	assert.Equal(t, want[:], lastFrame(fb.Segments))

	fb.Timers.Advance(996 * time.Millisecond) // tick 1
	a.Iterate()
	require.Equal(t, types.ModeAirQuality, a.State.Mode())

	fb.Timers.Advance(time.Second) // tick 2
	a.Iterate()
	require.Equal(t, types.ModeTimer, a.State.Mode())
}

func TestLatchDebounced(t *testing.T) {
	a, fb := newApp(t, nil)

	fb.Latch.Press()
	fb.Latch.Press() // same instant: bounce
	require.True(t, a.State.Latched())
	require.Equal(t, types.ModeAirQuality, a.State.Mode())
	require.Equal(t, uint32(1), a.IRQ.Accepted(InputLatch))

	// latched view survives the revert check
	fb.Timers.Advance(3 * time.Second)
	a.Iterate()
	require.Equal(t, types.ModeAirQuality, a.State.Mode())

	fb.Latch.Press()
	require.False(t, a.State.Latched())
	require.Equal(t, types.ModeTimer, a.State.Mode())

	snap := a.Snapshot()
	assert.Equal(t, uint32(1), snap.Bounces)
	assert.Zero(t, snap.Glitches)
}

func TestConcentrationAlarmSoundsHundredCycles(t *testing.T) {
	a, fb := newApp(t, nil)
	fb.ADC.SetRaw(1023)
	a.Iterate()
	require.Greater(t, a.State.Reading().PPM, float32(240))

	fb.Timers.Advance(time.Second)
	require.Equal(t, types.Alarm{Remaining: 100, Cause: types.CauseConcentration}, a.State.Alarm())

	for i := 0; i < 4000 && a.State.Alarm().Active(); i++ {
		a.Iterate()
		fb.Timers.Advance(50 * time.Microsecond)
	}
	require.False(t, a.State.Alarm().Active())
	assert.Equal(t, uint32(200), fb.Buzzer.Toggles())
	assert.False(t, fb.Buzzer.Get())
}

func TestTimerExpiryArmsTimerTone(t *testing.T) {
	a, fb := newApp(t, func(c *types.Config) { c.CountdownStart = 2 })

	fb.Timers.Advance(3 * time.Second)
	require.Equal(t, uint32(2), a.State.Countdown())
	require.Equal(t, types.CauseTimer, a.State.Alarm().Cause)
	require.Equal(t, uint32(1), a.Tick.Expiries())

	a.Iterate()
	require.True(t, fb.Buzzer.Get())
	fb.Timers.Advance(time.Millisecond)
	a.Iterate()
	require.False(t, fb.Buzzer.Get())
}

func TestBusyWaitRefreshesFromLoop(t *testing.T) {
	a, fb := newApp(t, func(c *types.Config) { c.Display.BusyWait = true })
	var held time.Duration
	a.Display.Hold = func(d time.Duration) { held += d }

	fb.Timers.Advance(10 * time.Millisecond)
	require.Zero(t, a.Display.Frames(), "no refresh timer in busy-wait mode")

	fb.Segments.Reset()
	a.Iterate()
	assert.Len(t, fb.Segments.Writes(), display.Digits)
	assert.Equal(t, 4*time.Millisecond, held)
	assert.Equal(t, uint32(1), a.Display.Frames())
}

func TestOverrunCounted(t *testing.T) {
	cfg, _ := config.ForBoard("host")
	fb := fakehal.NewBoard(cfg.Pins)
	b := fb.HAL()
	var clock time.Duration
	b.Now = func() time.Duration {
		clock += cfg.LoopBudget
		return clock
	}
	a, err := New(cfg, b, nil)
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	a.Iterate()
	a.Iterate()
	assert.Equal(t, uint32(2), a.Overruns())
	assert.Equal(t, uint32(2), a.Snapshot().Overruns)
	assert.Equal(t, uint32(2), a.Iterations())
}

func TestSnapshotPublished(t *testing.T) {
	cfg, _ := config.ForBoard("host")
	cfg.Telemetry.Interval = 5 * time.Millisecond
	fb := fakehal.NewBoard(cfg.Pins)
	b := bus.NewBus(16)
	conn := b.NewConnection("app")

	a, err := New(cfg, fb.HAL(), conn)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	fb.Timers.Advance(time.Second)

	sub := b.NewConnection("test").Subscribe(telemetry.TopicSnapshot)
	require.Eventually(t, func() bool {
		select {
		case m := <-sub.Channel():
			snap, ok := m.Payload.(types.Snapshot)
			return ok && snap.Countdown == 3599
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestNewRejectsIncompleteBoard(t *testing.T) {
	cfg, _ := config.ForBoard("host")
	fb := fakehal.NewBoard(cfg.Pins)

	b := fb.HAL()
	b.Timers = nil
	_, err := New(cfg, b, nil)
	assert.Equal(t, errcode.NoTimer, errcode.Of(err))

	b = fb.HAL()
	b.ADC = nil
	_, err = New(cfg, b, nil)
	assert.Equal(t, errcode.Unsupported, errcode.Of(err))

	_, err = New(cfg, (*hal.Board)(nil), nil)
	assert.Error(t, err)

	cfg.CountdownStart = 0
	_, err = New(cfg, fb.HAL(), nil)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestStartTwice(t *testing.T) {
	a, _ := newApp(t, nil)
	err := a.Start(context.Background())
	assert.ErrorIs(t, err, errcode.Busy)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg, _ := config.ForBoard("host")
	fb := fakehal.NewBoard(cfg.Pins)
	a, err := New(cfg, fb.HAL(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	require.Eventually(t, func() bool { return a.Iterations() > 10 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestFailedADCReadKeepsLastReading(t *testing.T) {
	a, fb := newApp(t, nil)
	fb.ADC.SetRaw(500)
	a.Iterate()
	before := a.State.Reading()
	require.Equal(t, uint16(500), before.Raw)

	fb.ADC.SetRaw(1000)
	fb.ADC.Fail(errcode.Timeout)
	a.Iterate()
	a.Iterate()
	assert.Equal(t, before, a.State.Reading())
	assert.Equal(t, uint32(2), a.ADCErrors())

	fb.ADC.Fail(nil)
	a.Iterate()
	assert.Equal(t, uint16(1000), a.State.Reading().Raw)
	assert.Equal(t, uint32(2), a.ADCErrors())
}
