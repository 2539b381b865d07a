// Package life implements Conway's Game of Life as a windowed transition
// rule.
package life

import (
	"fmt"

	"ndca/pkg/rule"
)

// Life is the classic two-state, radius-1, two-dimensional rule B3/S23.
type Life struct{}

// New returns the Game of Life rule.
func New() *Life { return &Life{} }

// Name returns the rule identifier.
func (*Life) Name() string { return "life" }

// Dims returns 2: Life is defined on a plane.
func (*Life) Dims() int { return 2 }

// States returns the number of cell states (dead, alive).
func (*Life) States() uint8 { return 2 }

// Radius returns the Moore neighborhood radius.
func (*Life) Radius() int { return 1 }

// Transition applies B3/S23 to the 3x3 window.
func (*Life) Transition(window []uint8, center uint8) (uint8, error) {
	if center > 1 {
		return 0, fmt.Errorf("life: state %d: %w", center, rule.ErrInvalidState)
	}
	neighbors := 0
	for i, s := range window {
		if i == len(window)/2 {
			continue
		}
		if s > 1 {
			return 0, fmt.Errorf("life: state %d: %w", s, rule.ErrInvalidState)
		}
		neighbors += int(s)
	}
	alive := center == 1
	if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
		return 1, nil
	}
	return 0, nil
}

func init() {
	rule.Register("life", func(cfg map[string]string) rule.Rule {
		return New()
	})
}
