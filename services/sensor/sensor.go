// Package sensor samples the gas sensor's analog output and converts it to a
// concentration. Sensor follows the tinygo drivers.Sensor convention: Update
// takes a measurement, accessors return the cached result.
package sensor

import (
	"github.com/chewxy/math32"
	"tinygo.org/x/drivers"

	"aqtimer-go/errcode"
	"aqtimer-go/hal"
	"aqtimer-go/types"
	"aqtimer-go/x/mathx"
)

// ADCBits is the width of the samples hal.ADC returns.
const ADCBits = 16

var _ drivers.Sensor = (*Sensor)(nil)

type Sensor struct {
	adc   hal.ADC
	cal   types.Calibration
	shift uint8
	n     uint32

	raw uint16
	ppm float32
}

// New builds a sensor for cal. Bits outside 1..16 are clamped; Oversample 0
// means a single sample.
func New(adc hal.ADC, cal types.Calibration) *Sensor {
	cal.Bits = mathx.Clamp(cal.Bits, 1, ADCBits)
	return &Sensor{
		adc:   adc,
		cal:   cal,
		shift: ADCBits - cal.Bits,
		n:     uint32(mathx.Max(cal.Oversample, 1)),
	}
}

// Update samples the ADC when which includes drivers.Voltage.
func (s *Sensor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	fa, fallible := s.adc.(hal.FallibleADC)
	var sum uint32
	for i := uint32(0); i < s.n; i++ {
		sum += uint32(s.adc.Get() >> s.shift)
		if fallible {
			if err := fa.Err(); err != nil {
				// keep the previous sample
				return errcode.Wrap(errcode.Of(err), "sensor.Update", "adc read", err)
			}
		}
	}
	q, r := mathx.DivMod(sum, s.n)
	if 2*r >= s.n && s.n > 1 {
		q++
	}
	s.raw = uint16(q)
	s.ppm = Convert(s.raw, s.cal)
	return nil
}

// Raw is the last sample at the calibrated resolution.
func (s *Sensor) Raw() uint16 { return s.raw }

// Voltage is the last sample in volts.
func (s *Sensor) Voltage() float32 { return Volts(s.raw, s.cal) }

// PPM is the last converted concentration. May be negative.
func (s *Sensor) PPM() float32 { return s.ppm }

func (s *Sensor) Reading() types.Reading {
	return types.Reading{Raw: s.raw, PPM: s.ppm}
}

// Volts converts a raw sample to the sensor output voltage.
func Volts(raw uint16, cal types.Calibration) float32 {
	return float32(raw) * (cal.FullScaleV / math32.Pow(2, float32(cal.Bits)))
}

// Convert maps a raw sample to ppm. The result is not clamped.
func Convert(raw uint16, cal types.Calibration) float32 {
	return (Volts(raw, cal) - cal.OffsetV) / cal.VoltsPerPPM
}
