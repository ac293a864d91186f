//go:build rp2040 || rp2350

package logx

import (
	"io"

	"aqtimer-go/x/conv"
)

// Output receives one line per entry. Set it from the platform bootstrap
// (a UART writer). Until then lines go to the runtime console.
var Output io.Writer = console{}

// MinLevel drops entries below it.
var MinLevel = LevelInfo

type console struct{}

func (console) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}

// One line buffer; entries are emitted from the main loop only.
var line [160]byte

func emit(lvl Level, name, msg string, kv []any) {
	if lvl < MinLevel {
		return
	}
	b := line[:0]
	b = append(b, lvl.String()...)
	b = append(b, ' ')
	if name != "" {
		b = append(b, '[')
		b = append(b, name...)
		b = append(b, "] "...)
	}
	b = append(b, msg...)
	for i := 0; i+1 < len(kv); i += 2 {
		b = append(b, ' ')
		if k, ok := kv[i].(string); ok {
			b = append(b, k...)
		} else {
			b = append(b, '?')
		}
		b = append(b, '=')
		b = appendValue(b, kv[i+1])
	}
	b = append(b, '\r', '\n')
	_, _ = Output.Write(b)
}

func appendValue(b []byte, v any) []byte {
	var num [24]byte
	switch x := v.(type) {
	case string:
		return append(b, x...)
	case bool:
		if x {
			return append(b, "true"...)
		}
		return append(b, "false"...)
	case int:
		return append(b, conv.Itoa(num[:], int64(x))...)
	case int32:
		return append(b, conv.Itoa(num[:], int64(x))...)
	case int64:
		return append(b, conv.Itoa(num[:], x)...)
	case uint8:
		return append(b, conv.Utoa(num[:], uint64(x))...)
	case uint16:
		return append(b, conv.Utoa(num[:], uint64(x))...)
	case uint32:
		return append(b, conv.Utoa(num[:], uint64(x))...)
	case uint64:
		return append(b, conv.Utoa(num[:], x)...)
	case float32:
		return conv.AppendFixed(b, float64(x), 2)
	case float64:
		return conv.AppendFixed(b, x, 2)
	case error:
		return append(b, x.Error()...)
	case interface{ String() string }:
		return append(b, x.String()...)
	default:
		return append(b, "<unk>"...)
	}
}
