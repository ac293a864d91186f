package mathx

import "golang.org/x/exp/constraints"

// DivMod returns a/b and a%b in one call. b == 0 yields (0, 0).
func DivMod[T constraints.Unsigned](a, b T) (q, r T) {
	if b == 0 {
		return 0, 0
	}
	return a / b, a % b
}
