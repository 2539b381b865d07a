package sim

import (
	"fmt"

	"ndca/pkg/geom"
	"ndca/pkg/ndarray"
	"ndca/pkg/rule"
)

// naiveStep applies the rule to every cell of the block simultaneously,
// gens times, reading cells outside the block as the default state. It is
// the engine's base-case worker and the ground-truth oracle in tests.
func naiveStep(a *ndarray.Array, r rule.Rule, states uint8, gens int) (*ndarray.Array, error) {
	dims := a.Dims()
	rad := r.Radius()
	window := geom.NewRect(geom.UniformVec(dims, -rad), geom.UniformVec(dims, rad))
	win := make([]uint8, window.Count())

	cur := a
	for g := 0; g < gens; g++ {
		next := ndarray.New(cur.Extent())
		for pos := range cur.Bounds().Span() {
			i := 0
			for off := range window.Span() {
				win[i] = cur.At(pos.Add(off))
				i++
			}
			s, err := r.Transition(win, cur.At(pos))
			if err != nil {
				return nil, err
			}
			if s >= states {
				return nil, fmt.Errorf("sim: transition returned state %d of %d: %w", s, states, rule.ErrInvalidState)
			}
			next.Set(pos, s)
		}
		cur = next
	}
	if cur == a {
		cur = a.Clone()
	}
	return cur, nil
}
