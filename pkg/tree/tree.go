package tree

import (
	"math/big"

	"ndca/pkg/geom"
)

// Tree is the mutable front door to a canonical node DAG: one root node
// plus the arbitrary-precision coordinate of its minimum corner. A Tree is
// not safe for concurrent mutation.
type Tree struct {
	pool   *Pool
	root   *Node
	offset geom.BigVec
}

// NewTree returns an empty tree centered on the origin.
func NewTree(p *Pool) *Tree {
	root := p.Empty(p.leafExp + 1)
	half := new(big.Int).Lsh(big.NewInt(1), uint(p.leafExp))
	return &Tree{
		pool:   p,
		root:   root,
		offset: geom.ZeroBigVec(p.dims).SubScalar(half),
	}
}

// Pool returns the pool the tree draws nodes from.
func (t *Tree) Pool() *Pool { return t.pool }

// Root returns the current root node.
func (t *Tree) Root() *Node { return t.root }

// Offset returns a copy of the absolute coordinate of the root's minimum
// corner.
func (t *Tree) Offset() geom.BigVec { return t.offset.Clone() }

// Len returns the root's extent along each axis.
func (t *Tree) Len() *big.Int { return t.root.Len() }

// Rect returns the absolute region covered by the root.
func (t *Tree) Rect() geom.BigRect {
	max := t.offset.AddScalar(new(big.Int).Sub(t.Len(), big.NewInt(1)))
	return geom.BigRect{Min: t.offset.Clone(), Max: max}
}

// Population returns the number of non-default cells.
func (t *Tree) Population() *big.Int { return t.root.Population() }

// Clone returns an independent handle sharing the same canonical nodes.
func (t *Tree) Clone() *Tree {
	return &Tree{pool: t.pool, root: t.root, offset: t.offset.Clone()}
}

// SetRoot replaces the root and offset in one step.
func (t *Tree) SetRoot(root *Node, offset geom.BigVec) {
	t.root = root
	t.offset = offset.Clone()
}

// SetRootCentered replaces the root, adjusting the offset so the tree stays
// centered on the same point.
func (t *Tree) SetRootCentered(root *Node) {
	oldHalf := new(big.Int).Rsh(t.Len(), 1)
	newHalf := new(big.Int).Rsh(root.Len(), 1)
	t.offset = t.offset.AddScalar(oldHalf).SubScalar(newHalf)
	t.root = root
}

// Get returns the state of the cell at the absolute position. Positions
// outside the covered region read as the default state.
func (t *Tree) Get(pos geom.BigVec) uint8 {
	if !t.Rect().Contains(pos) {
		return 0
	}
	return t.root.CellAt(pos.Sub(t.offset))
}

// Set writes the cell at the absolute position, growing the tree first if
// the position lies outside the covered region.
func (t *Tree) Set(pos geom.BigVec, state uint8) {
	t.ExpandTo(pos)
	t.root = t.root.SetCellAt(pos.Sub(t.offset), state)
}

// Expand grows the tree by one layer, keeping its contents centered: each
// child of the root is wrapped in a node holding it at the diagonally
// opposite octant, so the result covers the same cells with a quarter of
// padding on every side.
func (t *Tree) Expand() {
	p := t.pool
	mask := p.branching - 1
	children := make([]*Node, p.branching)
	for i, old := range t.root.children {
		inner := make([]*Node, p.branching)
		empty := p.Empty(old.layer)
		for j := range inner {
			inner[j] = empty
		}
		inner[i^mask] = old
		children[i] = p.Branch(inner)
	}
	t.root = p.Branch(children)
	quarter := new(big.Int).Rsh(t.Len(), 2)
	t.offset = t.offset.SubScalar(quarter)
}

// ExpandTo grows the tree until the given absolute position is covered,
// returning the number of expansions performed.
func (t *Tree) ExpandTo(pos geom.BigVec) int {
	n := 0
	for !t.Rect().Contains(pos) {
		t.Expand()
		n++
	}
	return n
}

// Shrink zooms in as far as possible without losing non-default cells,
// returning the number of layers removed.
func (t *Tree) Shrink() int {
	n := 0
	for t.root.layer > t.pool.leafExp+1 {
		inner := t.root.CenteredInner()
		if inner.pop.Cmp(t.root.pop) != 0 {
			break
		}
		t.SetRootCentered(inner)
		n++
	}
	return n
}

// BoundingRect returns the tight bound of the non-default cells in absolute
// coordinates. ok is false when the tree is empty. Cached populations prune
// the traversal: empty subtrees are skipped without descending.
func (t *Tree) BoundingRect() (geom.BigRect, bool) {
	if t.root.IsEmpty() {
		return geom.BigRect{}, false
	}
	r := boundingRect(t.root, t.offset)
	return *r, true
}

func boundingRect(n *Node, origin geom.BigVec) *geom.BigRect {
	if n.IsEmpty() {
		return nil
	}
	if n.IsLeaf() {
		w := 1 << uint(n.pool.leafExp)
		block := geom.NewRect(
			geom.UniformVec(n.pool.dims, 0),
			geom.UniformVec(n.pool.dims, w-1),
		)
		var acc *geom.Rect
		i := 0
		for pos := range block.Span() {
			if n.cells[i] != 0 {
				cell := geom.Rect{Min: pos, Max: pos}
				if acc == nil {
					acc = &cell
				} else {
					u := acc.Union(cell)
					acc = &u
				}
			}
			i++
		}
		out := geom.BigRect{
			Min: origin.Add(acc.Min.ToBig()),
			Max: origin.Add(acc.Max.ToBig()),
		}
		return &out
	}
	half := new(big.Int).Rsh(n.Len(), 1)
	var acc *geom.BigRect
	for i, child := range n.children {
		if child.IsEmpty() {
			continue
		}
		childOrigin := origin.Clone()
		for d := range childOrigin {
			if i&(1<<d) != 0 {
				childOrigin[d] = new(big.Int).Add(childOrigin[d], half)
			}
		}
		sub := boundingRect(child, childOrigin)
		if acc == nil {
			acc = sub
		} else {
			u := acc.Union(*sub)
			acc = &u
		}
	}
	return acc
}

// NonDefaultCells returns the absolute positions of every non-default cell
// together with its state. Intended for rendering and tests on bounded
// patterns.
func (t *Tree) NonDefaultCells() []CellEntry {
	var out []CellEntry
	collectCells(t.root, t.offset, &out)
	return out
}

// CellEntry pairs an absolute cell position with its state.
type CellEntry struct {
	Pos   geom.BigVec
	State uint8
}

func collectCells(n *Node, origin geom.BigVec, out *[]CellEntry) {
	if n.IsEmpty() {
		return
	}
	if n.IsLeaf() {
		w := 1 << uint(n.pool.leafExp)
		block := geom.NewRect(
			geom.UniformVec(n.pool.dims, 0),
			geom.UniformVec(n.pool.dims, w-1),
		)
		i := 0
		for pos := range block.Span() {
			if n.cells[i] != 0 {
				*out = append(*out, CellEntry{Pos: origin.Add(pos.ToBig()), State: n.cells[i]})
			}
			i++
		}
		return
	}
	half := new(big.Int).Rsh(n.Len(), 1)
	for i, child := range n.children {
		childOrigin := origin.Clone()
		for d := range childOrigin {
			if i&(1<<d) != 0 {
				childOrigin[d] = new(big.Int).Add(childOrigin[d], half)
			}
		}
		collectCells(child, childOrigin, out)
	}
}
