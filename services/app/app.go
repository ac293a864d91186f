// Package app wires the firmware together: interrupt sources feed the tick
// coordinator, the mode controller and the display; the main loop samples
// the sensor, runs the momentary revert and services the buzzer.
package app

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"

	"aqtimer-go/bus"
	"aqtimer-go/errcode"
	"aqtimer-go/hal"
	"aqtimer-go/hal/gpioirq"
	"aqtimer-go/services/alarm"
	"aqtimer-go/services/config"
	"aqtimer-go/services/display"
	"aqtimer-go/services/mode"
	"aqtimer-go/services/sensor"
	"aqtimer-go/services/state"
	"aqtimer-go/services/telemetry"
	"aqtimer-go/services/tick"
	"aqtimer-go/types"
	"aqtimer-go/x/logx"
)

// Input names registered with the edge dispatcher.
const (
	InputMomentary = "momentary"
	InputLatch     = "latch"
)

type App struct {
	cfg   types.Config
	board *hal.Board
	conn  *bus.Connection
	log   logx.Logger

	State   *state.Shared
	Tick    *tick.Coordinator
	Mode    *mode.Controller
	Display *display.Multiplexer
	Sensor  *sensor.Sensor
	Alarm   *alarm.Controller
	IRQ     *gpioirq.Dispatcher

	telemetry *telemetry.Service
	configSvc *config.ConfigService

	started    atomic.Bool
	sounding   bool
	adcFailing bool
	iterations atomic.Uint32
	overruns   atomic.Uint32
	adcErrors  atomic.Uint32
	cancels    []func()
}

// New builds the application for board. conn may be nil, in which case no
// config or telemetry is published.
func New(cfg types.Config, board *hal.Board, conn *bus.Connection) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := checkBoard(board); err != nil {
		return nil, err
	}

	st := state.New(cfg.CountdownStart)
	a := &App{
		cfg:     cfg,
		board:   board,
		conn:    conn,
		log:     logx.Named("app"),
		State:   st,
		Tick:    tick.New(st, cfg),
		Mode:    mode.New(st, cfg.Policy),
		Display: display.NewMultiplexer(board.Segments, board.Digits, st, cfg.Display.Select),
		Sensor:  sensor.New(board.ADC, cfg.Calibration),
		Alarm:   alarm.New(st, board.Buzzer, cfg.Alarm),
		IRQ:     gpioirq.New(board.Now),
	}
	a.telemetry = telemetry.New(a)
	a.configSvc = config.NewConfigService(cfg)
	return a, nil
}

func checkBoard(b *hal.Board) error {
	const op = "app.New"
	switch {
	case b == nil:
		return errcode.Wrap(errcode.Unsupported, op, "no board", nil)
	case b.Segments == nil || b.Digits == nil:
		return errcode.Wrap(errcode.Unsupported, op, "board has no display ports", nil)
	case b.Buzzer == nil:
		return errcode.Wrap(errcode.Unsupported, op, "board has no buzzer", nil)
	case b.ADC == nil:
		return errcode.Wrap(errcode.Unsupported, op, "board has no ADC", nil)
	case b.Momentary == nil || b.Latch == nil:
		return errcode.Wrap(errcode.Unsupported, op, "board has no buttons", nil)
	case b.Timers == nil:
		return errcode.Wrap(errcode.NoTimer, op, b.Name, nil)
	case b.Now == nil:
		return errcode.Wrap(errcode.Unsupported, op, "board has no clock", nil)
	}
	return nil
}

// Start arms the button interrupts and periodic timers and, when a bus
// connection was given, the config and telemetry services.
func (a *App) Start(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return errcode.Busy
	}
	a.Display.Blank()
	a.board.Buzzer.Set(false)

	pull := hal.PullNone
	if a.cfg.Buttons.PullUp {
		pull = hal.PullUp
	}
	debounce := time.Duration(a.cfg.Buttons.DebounceMs) * time.Millisecond
	for _, in := range []gpioirq.Input{
		{Name: InputMomentary, Pin: a.board.Momentary, OnPress: a.Mode.OnMomentary},
		{Name: InputLatch, Pin: a.board.Latch, OnPress: a.Mode.OnLatch},
	} {
		in.Pull = pull
		in.Invert = a.cfg.Buttons.PullUp
		in.Debounce = debounce
		cancel, err := a.IRQ.Register(in)
		if err != nil {
			return err
		}
		a.cancels = append(a.cancels, cancel)
	}

	if err := a.board.Timers.Every(time.Second, a.onSecond); err != nil {
		return errcode.Wrap(errcode.Of(err), "app.Start", "1 Hz tick", err)
	}
	if !a.cfg.Display.BusyWait {
		if err := a.board.Timers.Every(a.cfg.Display.DigitPeriod, a.Display.Step); err != nil {
			return errcode.Wrap(errcode.Of(err), "app.Start", "refresh tick", err)
		}
	}
	if err := a.board.Timers.Start(ctx); err != nil {
		return errcode.Wrap(errcode.Of(err), "app.Start", "timers", err)
	}

	if a.conn != nil {
		a.configSvc.Start(ctx, a.conn)
		if err := a.telemetry.Start(ctx, a.conn); err != nil {
			return err
		}
	}
	a.log.Info("started",
		"board", a.board.Name,
		"policy", a.cfg.Policy.String(),
		"warning_ppm", a.cfg.WarningPPM,
		"countdown", a.cfg.CountdownStart,
	)
	return nil
}

// onSecond runs in timer interrupt context.
func (a *App) onSecond() { a.Tick.OnSecond() }

// Iterate is one pass of the main loop. It never blocks except for the ADC
// conversion and, on busy-wait boards, one display frame.
func (a *App) Iterate() {
	start := a.board.Now()

	if err := a.Sensor.Update(drivers.Voltage); err != nil {
		// the last committed reading stays in place
		a.adcErrors.Add(1)
		if !a.adcFailing {
			a.adcFailing = true
			a.log.Warn("adc read failed", "err", err)
		}
	} else {
		if a.adcFailing {
			a.adcFailing = false
			a.log.Info("adc recovered", "errors", a.adcErrors.Load())
		}
		a.State.SetReading(a.Sensor.Reading())
	}
	a.Mode.Poll()

	sounding := a.Alarm.Service(a.board.Now())
	if sounding != a.sounding {
		a.sounding = sounding
		if sounding {
			a.log.Info("alarm", "cause", a.State.Alarm().Cause.String())
		}
	}

	if elapsed := a.board.Now() - start; elapsed > a.cfg.LoopBudget {
		a.overruns.Add(1)
	}
	a.iterations.Add(1)

	if a.cfg.Display.BusyWait {
		a.Display.Spin(1, a.cfg.Display.DigitPeriod)
	}
}

// Run starts the app and loops until ctx is done. On the MCU ctx is never
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return ctx.Err()
		default:
		}
		a.Iterate()
		runtime.Gosched()
	}
}

// Stop disarms the buttons and silences the buzzer. Host builds only; the
// refresh timer stops with the context passed to Start.
func (a *App) Stop() {
	for _, c := range a.cancels {
		c()
	}
	a.cancels = nil
	a.board.Buzzer.Set(false)
	a.log.Info("stopped", "iterations", a.iterations.Load(), "overruns", a.overruns.Load())
}

// Snapshot implements telemetry.Source.
func (a *App) Snapshot() types.Snapshot {
	snap := a.State.Snapshot()
	snap.Bounces = a.IRQ.Bounces()
	snap.Glitches = a.IRQ.Glitches()
	snap.Overruns = a.overruns.Load()
	return snap
}

// Overruns counts main-loop iterations that exceeded the loop budget.
func (a *App) Overruns() uint32 { return a.overruns.Load() }

func (a *App) Iterations() uint32 { return a.iterations.Load() }

// ADCErrors counts loop passes whose ADC read failed.
func (a *App) ADCErrors() uint32 { return a.adcErrors.Load() }

func (a *App) Config() types.Config { return a.cfg }
