package main

import (
	"sync"

	"aqtimer-go/services/display"
)

// vision emulates persistence of vision: it sits between the multiplexer
// and the fake ports and remembers what each position last showed.
type vision struct {
	mu     sync.Mutex
	sel    [display.Digits]uint8
	seg    uint8
	frame  display.Frame
	writes uint32
}

func newVision(sel []uint8) *vision {
	v := &vision{sel: display.DefaultSelect}
	if len(sel) >= display.Digits {
		copy(v.sel[:], sel)
	}
	return v
}

// segments and digits are the two hal.PortWriter halves.
type segPort struct{ v *vision }
type digPort struct{ v *vision }

func (p segPort) Write(b uint8) {
	p.v.mu.Lock()
	p.v.seg = b
	p.v.mu.Unlock()
}

func (p digPort) Write(b uint8) {
	v := p.v
	v.mu.Lock()
	defer v.mu.Unlock()
	if b == 0 {
		return
	}
	for i, s := range v.sel {
		if s == b {
			v.frame[i] = v.seg
			v.writes++
			return
		}
	}
}

func (v *vision) Frame() display.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame
}
