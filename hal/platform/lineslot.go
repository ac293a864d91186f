package platform

import "sync"

type closer interface {
	comparable
	Close() error
}

// lineSlot holds a line that is replaced on reconfiguration. The replaced
// line is closed after the slot lock is released: closing a gpiocdev line
// waits for its event goroutine, and that goroutine reads through Load.
type lineSlot[L closer] struct {
	mu   sync.Mutex
	line L
}

func (s *lineSlot[L]) Load() L {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

// Swap installs next and closes the line it replaced, if any.
func (s *lineSlot[L]) Swap(next L) error {
	s.mu.Lock()
	old := s.line
	s.line = next
	s.mu.Unlock()

	var none L
	if old == none {
		return nil
	}
	return old.Close()
}
