// Package config resolves the boot configuration and publishes its runtime
// sections as retained bus messages under config/<section>.
package config

import (
	"context"

	"aqtimer-go/bus"
	"aqtimer-go/types"
	"aqtimer-go/x/logx"
)

const (
	serviceName  = "config"
	configPrefix = "config"
)

// Section names published by ConfigService.
const (
	SectionBoard       = "board"
	SectionPolicy      = "policy"
	SectionCalibration = "calibration"
	SectionAlarm       = "alarm"
	SectionDisplay     = "display"
	SectionTelemetry   = "telemetry"
)

// Topic returns the retained topic for a section.
func Topic(section string) bus.Topic { return bus.T(configPrefix, section) }

type ConfigService struct {
	Name string
	cfg  types.Config
	log  logx.Logger
}

func NewConfigService(cfg types.Config) *ConfigService {
	return &ConfigService{Name: serviceName, cfg: cfg, log: logx.Named(serviceName)}
}

// Start publishes every section once, retained, so late subscribers see the
// values in force.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	sections := []struct {
		name string
		v    any
	}{
		{SectionBoard, s.cfg.Board},
		{SectionPolicy, s.cfg.Policy},
		{SectionCalibration, s.cfg.Calibration},
		{SectionAlarm, s.cfg.Alarm},
		{SectionDisplay, s.cfg.Display},
		{SectionTelemetry, s.cfg.Telemetry},
	}
	for _, sec := range sections {
		if ctx.Err() != nil {
			return
		}
		conn.Publish(conn.NewMessage(Topic(sec.name), sec.v, true))
	}
	s.log.Info("published", "board", s.cfg.Board, "policy", s.cfg.Policy.String())
}
