package timex

import (
	"testing"
	"time"
)

func TestHalfPeriod(t *testing.T) {
	if got := HalfPeriod(500); got != time.Millisecond {
		t.Fatalf("HalfPeriod(500) = %v", got)
	}
	if got := HalfPeriod(2000); got != 250*time.Microsecond {
		t.Fatalf("HalfPeriod(2000) = %v", got)
	}
	if got := PeriodFromHz(0); got != time.Second {
		t.Fatalf("PeriodFromHz(0) = %v", got)
	}
}

func TestElapsedAcrossWrap(t *testing.T) {
	if got := Elapsed(1, 0xFFFFFFFF); got != 2 {
		t.Fatalf("Elapsed across wrap = %d", got)
	}
}
