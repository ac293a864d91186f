package mathx

import "testing"

func TestClampAndBetween(t *testing.T) {
	if got := Clamp(12, 0, 10); got != 10 {
		t.Fatalf("Clamp hi = %d", got)
	}
	if got := Clamp(-3, 10, 0); got != 0 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if !Between(5.0, 10.0, 1.0) {
		t.Fatalf("Between should be order-insensitive")
	}
	if Between[uint8](11, 1, 10) {
		t.Fatalf("Between(11, 1, 10) = true")
	}
}

func TestIntDiv(t *testing.T) {
	if got := Max[uint32](3, 7); got != 7 {
		t.Fatalf("Max = %d", got)
	}
	q, r := DivMod[uint32](125, 60)
	if q != 2 || r != 5 {
		t.Fatalf("DivMod(125, 60) = %d, %d", q, r)
	}
}
