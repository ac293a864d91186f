//go:build !(rp2040 || rp2350)

package logx

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = mustDefault()
)

func mustDefault() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return z.Sugar()
}

// SetZap replaces the process sink. Passing nil silences logging.
func SetZap(z *zap.Logger) {
	if z == nil {
		z = zap.NewNop()
	}
	mu.Lock()
	sugar = z.Sugar()
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	return s.Sync()
}

func emit(lvl Level, name, msg string, kv []any) {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if name != "" {
		s = s.Named(name)
	}
	switch lvl {
	case LevelDebug:
		s.Debugw(msg, kv...)
	case LevelInfo:
		s.Infow(msg, kv...)
	case LevelWarn:
		s.Warnw(msg, kv...)
	default:
		s.Errorw(msg, kv...)
	}
}
