// Package tree implements the hash-consed N-dimensional hypercube tree that
// backs the simulation: canonical nodes, the deduplicating pool they live
// in, the mutable tree handle, and a flattened export form.
package tree

import (
	"fmt"
	"math/big"
	"slices"
	"sync/atomic"

	"ndca/pkg/geom"
)

// Node is one hypercube of the tree: either a leaf holding a dense block of
// cell states, or a branch holding 2^N children one layer down. Nodes are
// immutable once interned and shared freely; two nodes from the same pool
// are structurally equal iff they are the same pointer.
//
// A node at layer L spans 2^L cells along each axis. Leaves sit at the
// pool's leaf exponent; branches sit above it.
type Node struct {
	pool     *Pool
	id       uint64
	layer    int
	cells    []uint8 // leaf only
	children []*Node // branch only, indexed by octant
	hash     uint64
	key      string
	pop      *big.Int

	// future memoizes the centered inner node advanced by the layer's
	// full generation count. Written at most once per engine session,
	// first writer wins.
	future atomic.Pointer[Node]
}

// ID returns the node's pool-unique identity.
func (n *Node) ID() uint64 { return n.id }

// Layer returns the node's level in the tree.
func (n *Node) Layer() int { return n.layer }

// IsLeaf reports whether the node holds raw cells.
func (n *Node) IsLeaf() bool { return n.cells != nil }

// IsEmpty reports whether every cell covered by the node is in the default
// state.
func (n *Node) IsEmpty() bool { return n.pop.Sign() == 0 }

// Hash returns the node's content hash: a function of the leaf bytes or of
// the children's identities, never of deep content.
func (n *Node) Hash() uint64 { return n.hash }

// Population returns a copy of the number of non-default cells.
func (n *Node) Population() *big.Int { return new(big.Int).Set(n.pop) }

// Cells returns the leaf's cell block. The caller must not modify it.
func (n *Node) Cells() []uint8 { return n.cells }

// Child returns the branch child at the given octant index. Bit d of the
// index selects the high half along axis d.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns the branch's child slice. The caller must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Len returns the node's extent along each axis, 2^layer, as an
// arbitrary-precision integer.
func (n *Node) Len() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n.layer))
}

// Future returns the memoized advanced center node, or nil if it has not
// been computed yet.
func (n *Node) Future() *Node { return n.future.Load() }

// SetFuture installs the memoized advanced center node. The first write
// wins; later writes with a different value are ignored.
func (n *Node) SetFuture(f *Node) {
	n.future.CompareAndSwap(nil, f)
}

// childAt resolves a node-relative position to the octant index containing
// it and the position relative to that child. pos must lie in [0, 2^layer)
// on every axis.
func (n *Node) childAt(pos geom.BigVec) (int, geom.BigVec) {
	bit := uint(n.layer - 1)
	idx := 0
	rel := pos.Clone()
	half := new(big.Int).Lsh(big.NewInt(1), bit)
	for d := range pos {
		if pos[d].Bit(int(bit)) == 1 {
			idx |= 1 << d
			rel[d].Sub(rel[d], half)
		}
	}
	return idx, rel
}

// leafIndex resolves a leaf-relative position to its offset in the cell
// block (row-major, last axis fastest).
func (n *Node) leafIndex(pos geom.BigVec) int {
	exp := uint(n.pool.leafExp)
	idx := 0
	for d := range pos {
		idx = idx<<exp | int(pos[d].Int64())
	}
	return idx
}

// CellAt returns the state of the cell at the node-relative position, which
// must lie within the node's extent.
func (n *Node) CellAt(pos geom.BigVec) uint8 {
	cur := n
	rel := pos
	for !cur.IsLeaf() {
		var idx int
		idx, rel = cur.childAt(rel)
		cur = cur.children[idx]
	}
	return cur.cells[cur.leafIndex(rel)]
}

// SetCellAt returns the canonical node equal to n with the cell at the
// node-relative position replaced, rebuilding and interning the path down
// to the target leaf.
func (n *Node) SetCellAt(pos geom.BigVec, state uint8) *Node {
	if n.IsLeaf() {
		cells := slices.Clone(n.cells)
		cells[n.leafIndex(pos)] = state
		return n.pool.Leaf(cells)
	}
	idx, rel := n.childAt(pos)
	children := slices.Clone(n.children)
	children[idx] = children[idx].SetCellAt(rel, state)
	return n.pool.Branch(children)
}

// CenteredInner returns the node one layer down centered on n: the region
// from 2^(L-2) to 3*2^(L-2) along each axis. The node's layer must be above
// the pool's leaf exponent.
func (n *Node) CenteredInner() *Node {
	p := n.pool
	if n.IsLeaf() {
		panic(fmt.Sprintf("tree: centered inner of leaf at layer %d", n.layer))
	}
	if n.layer == p.leafExp+1 {
		// The result is a leaf; carve it out of the materialized block.
		a := n.ToArray()
		w := 1 << uint(n.layer)
		return FromArray(p, p.leafExp, a, geom.UniformVec(p.dims, w/4))
	}
	// Each octant of the inner node is the grandchild of the matching
	// child at the diagonally opposite corner.
	mask := p.branching - 1
	children := make([]*Node, p.branching)
	for i := range children {
		children[i] = n.children[i].children[i^mask]
	}
	return p.Branch(children)
}
