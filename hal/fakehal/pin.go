// Package fakehal provides in-memory peripherals for host tests and the
// terminal simulator.
package fakehal

import (
	"sync"

	"aqtimer-go/hal"
)

// Pin implements hal.IRQPin. Set drives the level and fires the registered
// handler synchronously on a matching edge, as an ISR would.
type Pin struct {
	mu      sync.Mutex
	number  int
	level   bool
	out     bool
	pull    hal.Pull
	irqEdge hal.Edge
	irqFunc func()
	toggles uint32
}

func NewPin(n int) *Pin { return &Pin{number: n} }

func (p *Pin) ConfigureInput(pull hal.Pull) error {
	p.mu.Lock()
	p.out = false
	p.pull = pull
	if pull == hal.PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.out = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *Pin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	if old != level {
		p.toggles++
	}
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *Pin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Pin) Number() int { return p.number }

func (p *Pin) SetIRQ(edge hal.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *Pin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = hal.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// Toggles counts level changes (buzzer edges).
func (p *Pin) Toggles() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles
}

// Press drives an active-low button: high->low fires a falling edge, then
// the line is released.
func (p *Pin) Press() {
	p.Set(false)
	p.Set(true)
}

func edgeFrom(old, new bool) hal.Edge {
	switch {
	case !old && new:
		return hal.EdgeRising
	case old && !new:
		return hal.EdgeFalling
	default:
		return hal.EdgeNone
	}
}

func irqWanted(cfg, seen hal.Edge) bool {
	switch cfg {
	case hal.EdgeBoth:
		return seen == hal.EdgeRising || seen == hal.EdgeFalling
	case hal.EdgeNone:
		return false
	default:
		return cfg == seen
	}
}
