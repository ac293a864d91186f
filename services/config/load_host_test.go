//go:build !(rp2040 || rp2350)

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqtimer-go/types"
)

func TestLoadOverlaysPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqtimer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
board: rpi
policy: latched
warning_ppm: 240
alarm:
  concentration_hz: 2500
display:
  digit_period: 3ms
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rpi", cfg.Board)
	assert.Equal(t, types.PolicyLatched, cfg.Policy)
	assert.Equal(t, float32(240), cfg.WarningPPM)
	assert.Equal(t, uint32(2500), cfg.Alarm.ConcentrationHz)
	assert.Equal(t, uint32(500), cfg.Alarm.TimerHz, "untouched fields keep the preset")
	assert.Equal(t, 3*time.Millisecond, cfg.Display.DigitPeriod)
	assert.Equal(t, "gpiochip0", cfg.Pins.Chip)
}

func TestLoadMissingFileGivesHost(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "host", cfg.Board)
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: sometimes\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg, _ := ForBoard("host")
	cfg.WarningPPM = 150
	cfg.Policy = types.PolicyMomentary
	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
