// cmd/boardtest exercises each peripheral of the board in turn so wiring
// faults show up before the firmware is flashed.
package main

import (
	"sync/atomic"
	"time"

	"aqtimer-go/hal"
	"aqtimer-go/hal/gpioirq"
	"aqtimer-go/hal/platform"
	"aqtimer-go/services/config"
	"aqtimer-go/services/display"
	"aqtimer-go/services/sensor"
	"aqtimer-go/x/logx"
	"aqtimer-go/x/timex"

	"tinygo.org/x/drivers"
)

// ---------- Configuration ----------

const (
	segmentDwell = 150 * time.Millisecond
	digitDwell   = 300 * time.Millisecond
	toneLength   = 300 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

var log = logx.Named("boardtest")

// ---------- Steps ----------

// walkSegments lights each segment on each position in turn.
func walkSegments(b *hal.Board, sel []uint8) {
	for pos, s := range sel {
		b.Digits.Write(s)
		for bit := 0; bit < 8; bit++ {
			b.Segments.Write(1 << uint(bit))
			time.Sleep(segmentDwell)
		}
		b.Segments.Write(0)
		log.Info("segments walked", "position", pos)
	}
	b.Digits.Write(0)
}

// countDigits shows 0..9 on every position at once.
func countDigits(b *hal.Board, sel []uint8) {
	var all uint8
	for _, s := range sel {
		all |= s
	}
	b.Digits.Write(all)
	for d := uint32(0); d < 10; d++ {
		b.Segments.Write(display.Pattern(d) | display.Separator)
		time.Sleep(digitDwell)
	}
	b.Segments.Write(0)
	b.Digits.Write(0)
}

// tone bit-bangs a square wave; the board test has nothing else to do.
func tone(b *hal.Board, hz uint32, d time.Duration) {
	half := timex.HalfPeriod(hz)
	end := time.Now().Add(d)
	for time.Now().Before(end) {
		b.Buzzer.Set(true)
		time.Sleep(half)
		b.Buzzer.Set(false)
		time.Sleep(half)
	}
}

// ---------- Main ----------

func main() {
	time.Sleep(2 * time.Second)
	cfg, err := config.ForBoard(platform.DefaultBoard)
	if err != nil {
		println("[boardtest] config:", err.Error())
		return
	}
	b, err := platform.Open(cfg)
	if err != nil {
		println("[boardtest] platform:", err.Error())
		return
	}
	if b.Close != nil {
		defer b.Close()
	}

	var presses [2]atomic.Uint32
	irq := gpioirq.New(b.Now)
	pull := hal.PullNone
	if cfg.Buttons.PullUp {
		pull = hal.PullUp
	}
	for i, p := range []hal.IRQPin{b.Momentary, b.Latch} {
		i := i
		_, err := irq.Register(gpioirq.Input{
			Name:     []string{"momentary", "latch"}[i],
			Pin:      p,
			Pull:     pull,
			Invert:   cfg.Buttons.PullUp,
			Debounce: time.Duration(cfg.Buttons.DebounceMs) * time.Millisecond,
			OnPress:  func() { presses[i].Add(1) },
		})
		if err != nil {
			log.Error("button", "err", err)
		}
	}

	s := sensor.New(b.ADC, cfg.Calibration)

	cycle := 0
	for {
		cycle++
		log.Info("cycle", "n", cycle)

		walkSegments(b, cfg.Display.Select)
		countDigits(b, cfg.Display.Select)

		tone(b, cfg.Alarm.TimerHz, toneLength)
		time.Sleep(toneLength)
		tone(b, cfg.Alarm.ConcentrationHz, toneLength)

		_ = s.Update(drivers.Voltage)
		log.Info("adc", "raw", s.Raw(), "volts", s.Voltage(), "ppm", s.PPM())

		pass := s.Raw() != 0 && s.Raw() != uint16(1<<cfg.Calibration.Bits-1)
		log.Info("buttons",
			"momentary", presses[0].Load(),
			"latch", presses[1].Load(),
			"bounces", irq.Bounces(),
		)
		if pass {
			log.Info("PASS adc within range; check display, buzzer and button counts by eye")
		} else {
			log.Warn("FAIL adc stuck at a rail")
		}

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			log.Info("halting", "cycles", cycle)
			return
		}
	}
}
