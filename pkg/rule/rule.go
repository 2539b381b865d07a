// Package rule defines the windowed transition-function contract that
// automaton rules implement, and a registry for looking them up by name.
package rule

import "errors"

// ErrInvalidState indicates that a transition function received or produced
// a state index outside the rule's configured state count.
var ErrInvalidState = errors.New("invalid cell state")

// Rule defines the minimal contract a cellular-automaton rule must
// implement. Transition must be pure and side-effect free: the engine
// memoizes its results aggressively and may invoke it from multiple
// goroutines.
type Rule interface {
	// Name returns the rule identifier.
	Name() string

	// Dims returns the dimensionality the rule is defined over, or 0 if
	// the rule works in any number of dimensions.
	Dims() int

	// States returns the number of cell states. State 0 is the default
	// (background) state.
	States() uint8

	// Radius returns the neighborhood radius. The transition window spans
	// (2*Radius+1)^N cells.
	Radius() int

	// Transition computes the next state of the window's center cell.
	// The window is a flat row-major block (last axis fastest) of
	// (2*Radius+1)^N states including the center.
	Transition(window []uint8, center uint8) (uint8, error)
}

// Factory constructs a Rule using an optional configuration map.
type Factory func(cfg map[string]string) Rule

var rules = map[string]Factory{}

// Register adds a rule factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	rules[name] = f
}

// Rules exposes the registry of available rule factories.
func Rules() map[string]Factory {
	return rules
}
