//go:build rp2040 || rp2350

package critical

import "runtime/interrupt"

// State is the saved interrupt mask.
type State = interrupt.State

// Enter masks interrupts on the current core and returns the previous mask.
// Sections must be a handful of loads and stores; never block inside one.
func Enter() State { return interrupt.Disable() }

// Exit restores the mask saved by Enter.
func Exit(s State) { interrupt.Restore(s) }
