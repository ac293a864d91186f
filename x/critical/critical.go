// Package critical provides the short global sections used for composite
// reads and writes of state shared with interrupt handlers.
package critical

// Do runs fn with interrupts masked.
func Do(fn func()) {
	s := Enter()
	fn()
	Exit(s)
}
