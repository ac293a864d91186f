//go:build !(rp2040 || rp2350)

package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNamedLoggerRoutesToZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetZap(zap.New(core))
	t.Cleanup(func() { SetZap(nil) })

	l := Named("app").With("tick")
	l.Info("countdown expired", "countdown", uint32(3600))
	l.Warn("loop overrun", "us", 9000)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "app.tick", entries[0].LoggerName)
	require.Equal(t, "countdown expired", entries[0].Message)
	require.EqualValues(t, 3600, entries[0].ContextMap()["countdown"])
	require.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "ERROR", LevelError.String())
}
