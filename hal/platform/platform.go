// Package platform opens the board this binary was built for. Exactly one
// of the board files is compiled in:
//
//	rp2040 || rp2350        Pico: machine pins, SysTick timers, UART log
//	linux && gpiocdev       Linux SBC: GPIO character device, IIO ADC
//	otherwise               host: in-memory fakes on real-time tickers
package platform

import (
	"aqtimer-go/errcode"
	"aqtimer-go/hal"
)

// outputs configures pins as outputs driven to their off level.
func outputs(activeLow bool, pins []hal.GPIOPin) ([]hal.OutputPin, error) {
	out := make([]hal.OutputPin, len(pins))
	for i, p := range pins {
		if err := p.ConfigureOutput(activeLow); err != nil {
			return nil, errcode.Wrap(errcode.Of(err), "platform.outputs", "", err)
		}
		out[i] = p
	}
	return out, nil
}
