// Package display renders the countdown or the concentration onto a
// 4-digit multiplexed 7-segment display.
package display

import (
	"github.com/chewxy/math32"

	"aqtimer-go/types"
	"aqtimer-go/x/mathx"
)

// Digits is the number of multiplexed positions.
const Digits = 4

// Segment patterns for 0-9, bit 0 = a ... bit 6 = g.
var segments = [10]uint8{0x3F, 0x06, 0x5B, 0x4F, 0x66, 0x6D, 0x7D, 0x07, 0x7F, 0x6F}

// Separator is the decimal point / colon segment.
const Separator uint8 = 0x80

// SeparatorPos carries the mm:ss separator (seconds tens).
const SeparatorPos = 2

// DefaultSelect drives position 0 (leftmost) through 3.
var DefaultSelect = [Digits]uint8{0x08, 0x04, 0x02, 0x01}

// Frame is one full refresh: a segment pattern per position, left to right.
type Frame [Digits]uint8

// Pattern returns the segment pattern for d mod 10.
func Pattern(d uint32) uint8 { return segments[d%10] }

// Render builds the frame for mode. Timer shows mm:ss of countdown with the
// separator lit; AirQuality shows the integer part of ppm as four digits.
// Values that do not fit wrap per digit.
func Render(mode types.Mode, countdown uint32, ppm float32) Frame {
	timer := mode == types.ModeTimer
	var v [Digits]uint32
	if timer {
		m, s := mathx.DivMod(countdown, 60)
		v = [Digits]uint32{m / 10, m, s / 10, s}
	} else {
		n := wrapPPM(ppm)
		v = [Digits]uint32{n / 1000, n / 100, n / 10, n}
	}

	var f Frame
	for i := range f {
		f[i] = Pattern(v[i])
	}
	if timer {
		f[SeparatorPos] |= Separator
	}
	return f
}

// wrapPPM truncates toward zero and reinterprets the result as uint32, so a
// negative reading shows the low digits of its two's complement.
func wrapPPM(ppm float32) uint32 {
	if math32.IsNaN(ppm) || math32.IsInf(ppm, 0) {
		return 0
	}
	t := math32.Mod(math32.Trunc(ppm), 1<<32)
	return uint32(int64(t))
}
