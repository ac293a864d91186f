// Package logx is the firmware's leveled logger. MCU builds write plain
// lines to an io.Writer (normally a UART); host builds log through zap.
//
// Never log from interrupt context.
package logx

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

// Logger is a named handle onto the process sink. The zero value logs to
// the default sink with no name.
type Logger struct {
	name string
}

// Named returns a logger whose lines carry "[name]".
func Named(name string) Logger { return Logger{name: name} }

// With returns a child logger, "parent.child".
func (l Logger) With(child string) Logger {
	if l.name == "" {
		return Logger{name: child}
	}
	return Logger{name: l.name + "." + child}
}

func (l Logger) Name() string { return l.name }

func (l Logger) Debug(msg string, kv ...any) { emit(LevelDebug, l.name, msg, kv) }
func (l Logger) Info(msg string, kv ...any)  { emit(LevelInfo, l.name, msg, kv) }
func (l Logger) Warn(msg string, kv ...any)  { emit(LevelWarn, l.name, msg, kv) }
func (l Logger) Error(msg string, kv ...any) { emit(LevelError, l.name, msg, kv) }
