// Package sim implements the memoized recursive algorithm that advances a
// canonical tree by many generations in work sublinear to the number of
// live cells.
package sim

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"ndca/pkg/geom"
	"ndca/pkg/rule"
	"ndca/pkg/tree"
)

// Engine advances trees drawn from one pool under one rule. Memoized
// futures cached on the pool's nodes belong to this (pool, rule) session;
// an Engine must not be constructed over a pool whose nodes already carry
// futures from a different rule.
type Engine struct {
	rule        rule.Rule
	pool        *tree.Pool
	parallelism int

	// radiusLog2 is the rule radius rounded up to a power of two, as an
	// exponent. baseLayer is the lowest layer the recursion descends to:
	// nodes there are advanced cell by cell.
	radiusLog2 uint
	baseLayer  int
}

// New constructs an engine for the given rule over the given pool.
// parallelism bounds the worker goroutines used for the top-level overlap
// fan-out; values below 2 run fully sequentially.
func New(r rule.Rule, p *tree.Pool, parallelism int) (*Engine, error) {
	if d := r.Dims(); d != 0 && d != p.Dims() {
		return nil, fmt.Errorf("sim: rule %q is %d-dimensional, pool is %d-dimensional: %w",
			r.Name(), d, p.Dims(), geom.ErrDimensionMismatch)
	}
	if r.States() > p.States() {
		return nil, fmt.Errorf("sim: rule %q has %d states, pool allows %d", r.Name(), r.States(), p.States())
	}

	var radiusLog2 uint
	for 1<<radiusLog2 < max(r.Radius(), 1) {
		radiusLog2++
	}
	base := max(p.LeafExp()+1, 2+int(radiusLog2))

	return &Engine{
		rule:        r,
		pool:        p,
		parallelism: parallelism,
		radiusLog2:  radiusLog2,
		baseLayer:   base,
	}, nil
}

// Rule returns the engine's transition rule.
func (e *Engine) Rule() rule.Rule { return e.rule }

// BaseLayer returns the layer at which the recursion switches to direct
// cell-by-cell application.
func (e *Engine) BaseLayer() int { return e.baseLayer }

// MaxGens returns the full generation count for a node at the given layer:
// the most the engine can advance it while its centered inner half stays
// independent of cells outside the node. The count doubles with each layer.
func (e *Engine) MaxGens(layer int) *big.Int {
	if layer < e.baseLayer {
		panic(fmt.Sprintf("sim: layer %d below base layer %d", layer, e.baseLayer))
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(layer-2)-e.radiusLog2)
}

// Step advances the tree by gens generations. The operation is
// all-or-nothing: on error the tree is left exactly as it was.
func (e *Engine) Step(t *tree.Tree, gens *big.Int) error {
	if gens.Sign() < 0 {
		return fmt.Errorf("sim: negative step size %v", gens)
	}
	if gens.Sign() == 0 {
		return nil
	}

	work := t.Clone()

	// Expand until the sphere of influence of the existing pattern,
	// radius * gens with both rounded up to powers of two, fits inside
	// the inner half of the root. One extra layer guarantees the result
	// layer is still above the leaves.
	minExpansion := new(big.Int).Lsh(big.NewInt(1), e.radiusLog2+uint(gens.BitLen()))
	expansion := new(big.Int)
	for expansion.Cmp(minExpansion) < 0 {
		work.Expand()
		expansion.Add(expansion, new(big.Int).Rsh(work.Len(), 2))
	}
	work.Expand()
	for work.Root().Layer() < e.baseLayer+1 {
		work.Expand()
	}
	for e.MaxGens(work.Root().Layer()).Cmp(gens) < 0 {
		work.Expand()
	}

	scratch := &sync.Map{}
	result, err := e.advance(work.Root(), gens, 0, scratch)
	if err != nil {
		return err
	}

	// The result is the centered inner node: its minimum corner sits a
	// quarter of the old root's extent in from the old corner.
	quarter := new(big.Int).Rsh(work.Len(), 2)
	t.SetRoot(result, work.Offset().AddScalar(quarter))
	t.Shrink()
	return nil
}

type scratchKey struct {
	id   uint64
	gens string
}

// advance computes the canonical node representing n's centered inner half
// after gens generations, with 0 <= gens <= MaxGens(n.Layer()).
func (e *Engine) advance(n *tree.Node, gens *big.Int, depth int, scratch *sync.Map) (*tree.Node, error) {
	layer := n.Layer()
	full := e.MaxGens(layer)
	if gens.Cmp(full) > 0 {
		panic(fmt.Sprintf("sim: %v generations exceeds layer %d budget %v", gens, layer, full))
	}

	if gens.Sign() == 0 {
		return n.CenteredInner(), nil
	}
	if n.IsEmpty() {
		// An empty region stays empty under a quiescent background.
		return e.pool.Empty(layer - 1), nil
	}

	isFull := gens.Cmp(full) == 0
	var key scratchKey
	if isFull {
		if f := n.Future(); f != nil {
			return f, nil
		}
	} else {
		key = scratchKey{id: n.ID(), gens: gens.String()}
		if v, ok := scratch.Load(key); ok {
			return v.(*tree.Node), nil
		}
	}

	var (
		result *tree.Node
		err    error
	)
	if layer == e.baseLayer {
		result, err = e.advanceBase(n, gens)
	} else {
		result, err = e.advanceSplit(n, gens, depth, scratch)
	}
	if err != nil {
		return nil, err
	}

	if isFull {
		n.SetFuture(result)
	} else {
		scratch.Store(key, result)
	}
	return result, nil
}

// advanceBase handles the recursive base case: the node is small enough to
// process each cell individually. The block is materialized, stepped with
// the raw transition function, and the centered inner half carved back out.
func (e *Engine) advanceBase(n *tree.Node, gens *big.Int) (*tree.Node, error) {
	block, err := naiveStep(n.ToArray(), e.rule, e.pool.States(), int(gens.Int64()))
	if err != nil {
		return nil, err
	}
	quarter := 1 << uint(n.Layer()-2)
	origin := geom.UniformVec(e.pool.Dims(), quarter)
	return tree.FromArray(e.pool, n.Layer()-1, block, origin), nil
}

// advanceSplit handles the recursive case, following the classical HashLife
// decomposition generalized to N dimensions: assemble the 3^N half-offset
// overlap nodes one layer down from the 4^N grandchildren, advance each by
// the first half of the generation budget, join the 2^N output windows, and
// advance those by the remainder.
func (e *Engine) advanceSplit(n *tree.Node, gens *big.Int, depth int, scratch *sync.Map) (*tree.Node, error) {
	p := e.pool
	dims := p.Dims()
	bf := p.Branching()

	// Grandchildren on a 4^N lattice: along each axis, the upper bit of
	// the coordinate picks the child octant and the lower bit picks the
	// grandchild octant.
	grandAt := func(pos geom.Vec) *tree.Node {
		childIdx, grandIdx := 0, 0
		for d, c := range pos {
			childIdx |= (c >> 1) << d
			grandIdx |= (c & 1) << d
		}
		return n.Child(childIdx).Child(grandIdx)
	}

	// The 3^N overlap nodes at layer L-1, offset by half a child along
	// each axis. The 2^N corner overlaps are the node's own children;
	// the rest join quadrants of adjacent children.
	overlapGrid := geom.NewRect(geom.UniformVec(dims, 0), geom.UniformVec(dims, 2))
	overlaps := make([]*tree.Node, overlapGrid.Count())
	i := 0
	for q := range overlapGrid.Span() {
		corners := make([]*tree.Node, bf)
		for c := 0; c < bf; c++ {
			pos := q.Clone()
			for d := range pos {
				pos[d] += (c >> d) & 1
			}
			corners[c] = grandAt(pos)
		}
		overlaps[i] = p.Branch(corners)
		i++
	}

	// Two half-steps that sum to gens, each within the child layer's
	// budget.
	childFull := e.MaxGens(n.Layer() - 1)
	tInner := new(big.Int).Set(gens)
	if tInner.Cmp(childFull) > 0 {
		tInner.Set(childFull)
	}
	tOuter := new(big.Int).Sub(gens, tInner)

	halfStepped := make([]*tree.Node, len(overlaps))
	if depth == 0 && e.parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(e.parallelism)
		for i, o := range overlaps {
			g.Go(func() error {
				res, err := e.advance(o, tInner, depth+1, scratch)
				if err != nil {
					return err
				}
				halfStepped[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, o := range overlaps {
			res, err := e.advance(o, tInner, depth+1, scratch)
			if err != nil {
				return nil, err
			}
			halfStepped[i] = res
		}
	}

	// index into the 3^N half-stepped lattice, last axis fastest to
	// match Span order.
	halfAt := func(pos geom.Vec) *tree.Node {
		idx := 0
		for _, c := range pos {
			idx = idx*3 + c
		}
		return halfStepped[idx]
	}

	final := make([]*tree.Node, bf)
	for c := 0; c < bf; c++ {
		window := make([]*tree.Node, bf)
		for b := 0; b < bf; b++ {
			pos := make(geom.Vec, dims)
			for d := range pos {
				pos[d] = (c>>d)&1 + (b>>d)&1
			}
			window[b] = halfAt(pos)
		}
		joined := p.Branch(window)
		res, err := e.advance(joined, tOuter, depth+1, scratch)
		if err != nil {
			return nil, err
		}
		final[c] = res
	}
	return p.Branch(final), nil
}
