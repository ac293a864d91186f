package main

import (
	"context"
	"time"

	"aqtimer-go/bus"
	"aqtimer-go/hal/platform"
	"aqtimer-go/services/app"
	"aqtimer-go/services/config"
	"aqtimer-go/x/logx"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", platform.DefaultBoard)

	cfg, err := config.ForBoard(platform.DefaultBoard)
	if err != nil {
		halt("config", err)
	}
	board, err := platform.Open(cfg)
	if err != nil {
		halt("platform", err)
	}

	b := bus.NewBus(4)
	a, err := app.New(cfg, board, b.NewConnection("app"))
	if err != nil {
		halt("app", err)
	}

	log := logx.Named("main")
	log.Info("running", "board", board.Name)
	if err := a.Run(context.Background()); err != nil {
		halt("run", err)
	}
}

// halt keeps reporting a boot failure; there is nothing to fall back to.
func halt(stage string, err error) {
	for {
		println("[main]", stage, "failed:", err.Error())
		time.Sleep(5 * time.Second)
	}
}
