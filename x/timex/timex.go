package timex

import "time"

// PeriodFromHz returns the period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(time.Second) / uint64(freqHz))
}

// HalfPeriod is the high (or low) time of a 50% square wave at freqHz.
func HalfPeriod(freqHz uint32) time.Duration { return PeriodFromHz(freqHz) / 2 }

// Elapsed returns now-then for free-running uint32 counters, correct
// across a single wrap.
func Elapsed(now, then uint32) uint32 { return now - then }
