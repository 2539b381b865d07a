// Package wolfram implements the one-dimensional elementary cellular
// automata (Wolfram codes) as windowed transition rules.
package wolfram

import (
	"fmt"
	"strconv"

	"ndca/pkg/rule"
)

// Config holds parameters for the elementary cellular automaton.
type Config struct {
	Rule uint8
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Rule: 110}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rule"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 255 {
			c.Rule = uint8(parsed)
		}
	}
	return c
}

// Wolfram is a two-state, radius-1, one-dimensional rule identified by its
// Wolfram code.
type Wolfram struct {
	rule uint8
}

// New creates an elementary automaton with the given Wolfram code.
func New(code uint8) *Wolfram {
	return &Wolfram{rule: code}
}

// Name returns the rule identifier.
func (w *Wolfram) Name() string { return "wolfram" }

// Dims returns 1: elementary automata are one-dimensional.
func (*Wolfram) Dims() int { return 1 }

// States returns the number of cell states.
func (*Wolfram) States() uint8 { return 2 }

// Radius returns the neighborhood radius.
func (*Wolfram) Radius() int { return 1 }

// Code returns the configured Wolfram code.
func (w *Wolfram) Code() uint8 { return w.rule }

// Transition looks up the next state from the rule byte using the
// left/center/right neighborhood bits.
func (w *Wolfram) Transition(window []uint8, center uint8) (uint8, error) {
	for _, s := range window {
		if s > 1 {
			return 0, fmt.Errorf("wolfram: state %d: %w", s, rule.ErrInvalidState)
		}
	}
	idx := (window[0] << 2) | (window[1] << 1) | window[2]
	return (w.rule >> idx) & 1, nil
}

func init() {
	rule.Register("wolfram", func(cfg map[string]string) rule.Rule {
		c := FromMap(cfg)
		return New(c.Rule)
	})
}
