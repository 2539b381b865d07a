// Package briansbrain implements Brian's Brain as a windowed transition
// rule.
package briansbrain

import (
	"fmt"

	"ndca/pkg/rule"
)

const (
	stateDead  = 0
	stateOn    = 1
	stateDying = 2
)

// Brain is the three-state, radius-1, two-dimensional Brian's Brain rule.
type Brain struct{}

// New returns the Brian's Brain rule.
func New() *Brain { return &Brain{} }

// Name identifies the rule.
func (*Brain) Name() string { return "briansbrain" }

// Dims returns 2.
func (*Brain) Dims() int { return 2 }

// States returns the number of cell states (dead, on, dying).
func (*Brain) States() uint8 { return 3 }

// Radius returns the Moore neighborhood radius.
func (*Brain) Radius() int { return 1 }

// Transition advances the center cell: on cells start dying, dying cells
// die, and dead cells fire when exactly two neighbors are on.
func (*Brain) Transition(window []uint8, center uint8) (uint8, error) {
	if center > stateDying {
		return 0, fmt.Errorf("briansbrain: state %d: %w", center, rule.ErrInvalidState)
	}
	switch center {
	case stateOn:
		return stateDying, nil
	case stateDying:
		return stateDead, nil
	}
	neighbors := 0
	for i, s := range window {
		if i == len(window)/2 {
			continue
		}
		if s > stateDying {
			return 0, fmt.Errorf("briansbrain: state %d: %w", s, rule.ErrInvalidState)
		}
		if s == stateOn {
			neighbors++
		}
	}
	if neighbors == 2 {
		return stateOn, nil
	}
	return stateDead, nil
}

func init() {
	rule.Register("briansbrain", func(cfg map[string]string) rule.Rule {
		return New()
	})
}
