//go:build !(rp2040 || rp2350) && !(linux && gpiocdev)

package platform

import (
	"aqtimer-go/hal"
	"aqtimer-go/types"
)

const DefaultBoard = "host"

// Open returns the in-memory host board.
func Open(cfg types.Config) (*hal.Board, error) {
	b, _ := OpenHost(cfg)
	return b, nil
}
