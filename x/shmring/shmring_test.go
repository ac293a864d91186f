package shmring

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeIO models partial producer progress (accept up to k bytes).
type fakeIO struct{ k int }

func (f fakeIO) write(p []byte) int {
	if len(p) > f.k {
		return f.k
	}
	return len(p)
}

func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	r := New(64)
	prod := fakeIO{k: 7}

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}

	p := src
	dst := make([]byte, N)
	off := 0
	for off < N {
		if len(p) > 0 {
			if step := prod.write(p); step > 0 {
				step = r.WriteFrom(p[:step])
				p = p[step:]
			}
		}
		var tmp [17]byte
		n := r.ReadInto(tmp[:])
		copy(dst[off:], tmp[:n])
		off += n
	}

	for i := 0; i < N; i++ {
		if dst[i] != src[i] {
			t.Fatalf("mismatch at %d: got=%d want=%d", i, dst[i], src[i])
		}
	}
}

func TestReadableEdge(t *testing.T) {
	r := New(8)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	if n := r.WriteFrom([]byte{1, 2, 3}); n != 3 {
		t.Fatalf("write 3 -> %d", n)
	}
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	r.WriteFrom([]byte{4})
	select {
	case <-r.Readable(): // not empty before: no new token
		t.Fatal("unexpected extra Readable")
	default:
	}
}

func TestWriteIsAllOrNothing(t *testing.T) {
	r := New(8)
	if n, _ := r.Write([]byte("12345")); n != 5 {
		t.Fatalf("n=%d", n)
	}
	// 3 bytes left; a 4 byte line is dropped whole
	r.Write([]byte("abcd"))
	if r.Dropped() != 1 || r.Available() != 5 {
		t.Fatalf("dropped=%d available=%d", r.Dropped(), r.Available())
	}
	r.Write([]byte("xyz"))
	got := make([]byte, 8)
	n := r.ReadInto(got)
	if string(got[:n]) != "12345xyz" {
		t.Fatalf("got %q", got[:n])
	}
}

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestDrainCopiesUntilStopped(t *testing.T) {
	r := New(128)
	var out syncBuf
	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- r.Drain(&out, stop) }()

	r.Write([]byte("INFO [app] started\r\n"))
	r.Write([]byte("INFO [app] alarm\r\n"))

	deadline := time.Now().Add(time.Second)
	for out.String() != "INFO [app] started\r\nINFO [app] alarm\r\n" {
		if time.Now().After(deadline) {
			t.Fatalf("drained %q", out.String())
		}
		time.Sleep(time.Millisecond)
	}
	close(stop)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("uart gone") }

func TestDrainStopsOnWriteError(t *testing.T) {
	r := New(16)
	r.Write([]byte("x"))
	if err := r.Drain(failWriter{}, nil); err == nil {
		t.Fatal("expected error")
	}
}
