// Package automaton is the front door to the simulation core: it ties a
// transition rule, a canonicalization pool, a tree handle, and the HashLife
// engine into one session.
package automaton

import (
	"fmt"
	"math/big"

	"ndca/pkg/geom"
	"ndca/pkg/rule"
	"ndca/pkg/sim"
	"ndca/pkg/tree"
)

// Config controls the geometry of a simulation session.
type Config struct {
	// Dims is the grid dimensionality. Zero means "use the rule's".
	Dims int
	// LeafExp sets the leaf block size: leaves span 2^LeafExp cells per
	// axis. Zero gives single-cell leaves.
	LeafExp int
	// Parallelism bounds the engine's worker fan-out. Values below 2 run
	// sequentially.
	Parallelism int
}

// Automaton is one simulation session over an unbounded N-dimensional grid.
// It is not safe for concurrent mutation.
type Automaton struct {
	rule rule.Rule
	pool *tree.Pool
	tree *tree.Tree
	eng  *sim.Engine
	gens *big.Int
}

// New creates a session for the given rule.
func New(r rule.Rule, cfg Config) (*Automaton, error) {
	dims := cfg.Dims
	if dims == 0 {
		dims = r.Dims()
	}
	if rd := r.Dims(); rd != 0 && rd != dims {
		return nil, fmt.Errorf("automaton: rule %q is %d-dimensional, config wants %d: %w",
			r.Name(), rd, dims, geom.ErrDimensionMismatch)
	}
	pool, err := tree.NewPool(dims, cfg.LeafExp, r.States())
	if err != nil {
		return nil, err
	}
	eng, err := sim.New(r, pool, cfg.Parallelism)
	if err != nil {
		return nil, err
	}
	return &Automaton{
		rule: r,
		pool: pool,
		tree: tree.NewTree(pool),
		eng:  eng,
		gens: new(big.Int),
	}, nil
}

// Rule returns the session's transition rule.
func (a *Automaton) Rule() rule.Rule { return a.rule }

// Dims returns the grid dimensionality.
func (a *Automaton) Dims() int { return a.pool.Dims() }

// Tree exposes the underlying tree handle for advanced use.
func (a *Automaton) Tree() *tree.Tree { return a.tree }

// Pool exposes the underlying canonicalization pool for advanced use.
func (a *Automaton) Pool() *tree.Pool { return a.pool }

func (a *Automaton) checkPos(pos geom.BigVec) error {
	if pos.Dims() != a.pool.Dims() {
		return fmt.Errorf("automaton: position %v in %d dimensions: %w",
			pos, a.pool.Dims(), geom.ErrDimensionMismatch)
	}
	return nil
}

// GetCell returns the state of the cell at the absolute position. Positions
// outside the explored region read as the default state.
func (a *Automaton) GetCell(pos geom.BigVec) (uint8, error) {
	if err := a.checkPos(pos); err != nil {
		return 0, err
	}
	return a.tree.Get(pos), nil
}

// SetCell writes the cell at the absolute position, growing the tree as
// needed.
func (a *Automaton) SetCell(pos geom.BigVec, state uint8) error {
	if err := a.checkPos(pos); err != nil {
		return err
	}
	if state >= a.rule.States() {
		return fmt.Errorf("automaton: state %d of %d: %w", state, a.rule.States(), rule.ErrInvalidState)
	}
	a.tree.Set(pos, state)
	return nil
}

// Step advances the grid by gens generations. On error the grid is left
// unmodified.
func (a *Automaton) Step(gens *big.Int) error {
	if err := a.eng.Step(a.tree, gens); err != nil {
		return err
	}
	a.gens.Add(a.gens, gens)
	return nil
}

// StepN advances the grid by n generations.
func (a *Automaton) StepN(n uint64) error {
	return a.Step(new(big.Int).SetUint64(n))
}

// Generation returns the total number of generations elapsed.
func (a *Automaton) Generation() *big.Int { return new(big.Int).Set(a.gens) }

// Population returns the number of non-default cells.
func (a *Automaton) Population() *big.Int { return a.tree.Population() }

// BoundingRect returns the tight bound of the non-default cells. ok is
// false when the grid is empty.
func (a *Automaton) BoundingRect() (geom.BigRect, bool) {
	return a.tree.BoundingRect()
}

// Flatten exports the grid as a linear node array for interchange.
func (a *Automaton) Flatten() *tree.FlatTree {
	return tree.Flatten(a.tree)
}

// Collect drops every pool node unreachable from the current root. Call it
// between steps to trade memory for avoided pause latency during a step.
func (a *Automaton) Collect() {
	a.pool.Collect(a.tree.Root())
}
