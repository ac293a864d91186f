package fakehal

import "sync"

// Port records writes to a hal.PortWriter.
type Port struct {
	mu     sync.Mutex
	last   uint8
	writes []uint8
	keep   int
}

// NewPort keeps the most recent keep writes (0 = only the last value).
func NewPort(keep int) *Port { return &Port{keep: keep} }

func (p *Port) Write(v uint8) {
	p.mu.Lock()
	p.last = v
	if p.keep > 0 {
		if len(p.writes) == p.keep {
			copy(p.writes, p.writes[1:])
			p.writes = p.writes[:p.keep-1]
		}
		p.writes = append(p.writes, v)
	}
	p.mu.Unlock()
}

func (p *Port) Last() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Writes returns a copy of the retained history, oldest first.
func (p *Port) Writes() []uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uint8(nil), p.writes...)
}

func (p *Port) Reset() {
	p.mu.Lock()
	p.writes = p.writes[:0]
	p.mu.Unlock()
}
