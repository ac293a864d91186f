package fakehal

import "sync"

// ADC returns scripted 10-bit samples, left-justified to 16 bits like
// TinyGo's machine.ADC. When the script runs out the last sample repeats.
type ADC struct {
	mu      sync.Mutex
	samples []uint16
	index   int
	reads   uint32
	err     error
}

func NewADC(raw10 ...uint16) *ADC {
	a := &ADC{}
	a.Script(raw10...)
	return a
}

// Script replaces the sample list (10-bit values).
func (a *ADC) Script(raw10 ...uint16) {
	a.mu.Lock()
	a.samples = append(a.samples[:0], raw10...)
	a.index = 0
	a.mu.Unlock()
}

// SetRaw pins the ADC to one 10-bit value.
func (a *ADC) SetRaw(raw10 uint16) { a.Script(raw10) }

func (a *ADC) Get() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reads++
	if len(a.samples) == 0 {
		return 0
	}
	v := a.samples[a.index]
	if a.index < len(a.samples)-1 {
		a.index++
	}
	return (v & 0x3FF) << 6
}

// Fail makes every following read fail with err; nil restores good reads.
func (a *ADC) Fail(err error) {
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}

func (a *ADC) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *ADC) Reads() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reads
}
