// cmd/aqsim runs the firmware on the host against in-memory peripherals and
// draws the display in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"aqtimer-go/bus"
	"aqtimer-go/hal/platform"
	"aqtimer-go/services/app"
	"aqtimer-go/services/config"
	"aqtimer-go/x/logx"
)

func main() {
	cfgPath := flag.String("config", "aqtimer.yaml", "YAML config overlay")
	countdown := flag.Uint("countdown", 0, "override countdown start (seconds)")
	raw := flag.Uint("adc", 300, "initial 10-bit ADC value")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if err := run(*cfgPath, uint32(*countdown), uint16(*raw), *logPath); err != nil {
		fmt.Printf("Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string, countdown uint32, raw uint16, logPath string) error {
	// the terminal belongs to the UI
	logx.SetZap(nil)
	if logPath != "" {
		zc := zap.NewDevelopmentConfig()
		zc.OutputPaths = []string{logPath}
		zc.ErrorOutputPaths = []string{logPath}
		z, err := zc.Build()
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		logx.SetZap(z)
		defer logx.Sync()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if countdown > 0 {
		cfg.CountdownStart = countdown
	}

	board, fakes := platform.OpenHost(cfg)
	v := newVision(cfg.Display.Select)
	board.Segments = segPort{v}
	board.Digits = digPort{v}

	b := bus.NewBus(8)
	a, err := app.New(cfg, board, b.NewConnection("app"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	p := tea.NewProgram(newModel(a, fakes, v, raw), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	cancel()
	<-done
	return nil
}
