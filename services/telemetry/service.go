// Package telemetry publishes a retained state snapshot on the bus at a
// fixed interval and logs it. The interval follows config/telemetry.
package telemetry

import (
	"context"
	"time"

	"aqtimer-go/bus"
	"aqtimer-go/types"
	"aqtimer-go/x/logx"
)

var (
	topicConfigTelemetry = bus.T("config", "telemetry")
	// TopicSnapshot carries the latest types.Snapshot, retained.
	TopicSnapshot = bus.T("state", "snapshot")
)

const defaultInterval = time.Second

// Source supplies snapshots; the app implements it.
type Source interface {
	Snapshot() types.Snapshot
}

type Service struct {
	src Source
	log logx.Logger
}

func New(src Source) *Service {
	return &Service{src: src, log: logx.Named("telemetry")}
}

// Publish takes one snapshot and publishes it retained.
func (s *Service) Publish(conn *bus.Connection) types.Snapshot {
	snap := s.src.Snapshot()
	conn.Publish(conn.NewMessage(TopicSnapshot, snap, true))
	return snap
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigTelemetry)
	defer conn.Unsubscribe(cfgSub)

	interval := defaultInterval
	tick := time.NewTicker(interval)
	defer tick.Stop()
	paused := false

	for {
		select {
		case <-ctx.Done():
			s.log.Info("stopping")
			return
		case <-tick.C:
			if paused {
				continue
			}
			snap := s.Publish(conn)
			s.log.Debug("snapshot",
				"mode", snap.Mode.String(),
				"countdown", snap.Countdown,
				"ppm", snap.Reading.PPM,
				"alarm", snap.Alarm.Remaining,
				"tick", snap.Tick,
			)
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			tc, ok := msg.Payload.(types.TelemetryConfig)
			if !ok {
				s.log.Warn("ignoring config payload", "topic", msg.Topic.String())
				continue
			}
			// zero interval pauses publishing
			if tc.Interval <= 0 {
				paused = true
				s.log.Info("paused")
				continue
			}
			paused = false
			if tc.Interval != interval {
				interval = tc.Interval
				tick.Reset(interval)
				s.log.Info("interval set", "interval", interval.String())
			}
		}
	}
}

// Start runs the service until ctx is done.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
