// Package shmring is a single-producer, single-consumer byte ring. The
// firmware uses it to decouple log output from the UART: the main loop
// writes whole lines without blocking and a drain goroutine feeds the port.
package shmring

import (
	"io"
	"sync/atomic"
)

// Ring is a single-producer, single-consumer byte ring.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	dropped atomic.Uint32

	readable chan struct{} // 0->>0 available edge
}

// New allocates a ring; size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Space is the number of bytes the producer may write.
func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

// Available is the number of bytes the consumer may read.
func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// Dropped counts Write calls rejected for lack of space.
func (r *Ring) Dropped() uint32 { return r.dropped.Load() }

// Write stores p whole or not at all, so a full ring never leaves half a
// log line. It never blocks. A rejected write still reports len(p) so
// io.Writer callers do not retry; see Dropped.
func (r *Ring) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) > r.Space() {
		r.dropped.Add(1)
		return len(p), nil
	}
	r.WriteFrom(p)
	return len(p), nil
}

// WriteFrom copies as much of src as fits and returns the count.
func (r *Ring) WriteFrom(src []byte) (n int) {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	beforeAvail := wr - rd
	space := int(r.size() - beforeAvail)
	if space <= 0 {
		return 0
	}
	n = min(space, len(src))

	wrIdx := wr & r.mask
	first := min(int(r.size()-wrIdx), n)
	copy(r.buf[wrIdx:wrIdx+uint32(first)], src[:first])
	if second := n - first; second > 0 {
		copy(r.buf[:second], src[first:n])
	}
	r.wr.Store(wr + uint32(n)) // release

	if beforeAvail == 0 {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
	return n
}

// ReadInto copies up to len(dst) bytes out of the ring.
func (r *Ring) ReadInto(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	avail := int(wr - rd)
	if avail <= 0 {
		return 0
	}
	n = min(avail, len(dst))

	rdIdx := rd & r.mask
	first := min(int(r.size()-rdIdx), n)
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release
	return n
}

// Readable fires on the empty to non-empty transition. Tokens coalesce.
func (r *Ring) Readable() <-chan struct{} { return r.readable }

// Drain copies everything readable to w, then waits for more. It returns
// when stop is closed or w fails.
func (r *Ring) Drain(w io.Writer, stop <-chan struct{}) error {
	var chunk [64]byte
	for {
		for {
			n := r.ReadInto(chunk[:])
			if n == 0 {
				break
			}
			if _, err := w.Write(chunk[:n]); err != nil {
				return err
			}
		}
		select {
		case <-stop:
			return nil
		case <-r.readable:
		}
	}
}
