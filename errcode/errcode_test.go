package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, OK},
		{PinInUse, PinInUse},
		{Wrap(InvalidConfig, "config.Validate", "warning_ppm", nil), InvalidConfig},
		{errors.New("boom"), Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("Of(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestWrapIsAndUnwrap(t *testing.T) {
	cause := errors.New("line busy")
	err := Wrap(UnknownPin, "platform.Open", "gpio 30", cause)

	if !errors.Is(err, UnknownPin) {
		t.Fatalf("errors.Is(err, UnknownPin) = false")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false")
	}
	if got, want := err.Error(), "platform.Open: unknown_pin: gpio 30: line busy"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
