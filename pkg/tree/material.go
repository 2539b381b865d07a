package tree

import (
	"ndca/pkg/geom"
	"ndca/pkg/ndarray"
)

// ToArray materializes the node into a dense block. Only meant for small
// nodes (the engine's base case and leaf-level assembly); the extent along
// each axis is 2^layer and must fit in memory.
func (n *Node) ToArray() *ndarray.Array {
	a := ndarray.Cube(n.pool.dims, 1<<uint(n.layer))
	n.fill(a, geom.UniformVec(n.pool.dims, 0))
	return a
}

func (n *Node) fill(a *ndarray.Array, origin geom.Vec) {
	if n.IsEmpty() {
		return
	}
	if n.IsLeaf() {
		w := 1 << uint(n.pool.leafExp)
		block := geom.NewRect(geom.UniformVec(n.pool.dims, 0), geom.UniformVec(n.pool.dims, w-1))
		i := 0
		for pos := range block.Span() {
			a.Set(origin.Add(pos), n.cells[i])
			i++
		}
		return
	}
	half := 1 << uint(n.layer-1)
	for i, child := range n.children {
		off := origin.Clone()
		for d := range off {
			if i&(1<<d) != 0 {
				off[d] += half
			}
		}
		child.fill(a, off)
	}
}

// FromArray builds the canonical node of the given layer whose cells are
// read from the block starting at origin. Cells outside the block read as
// the default state.
func FromArray(p *Pool, layer int, a *ndarray.Array, origin geom.Vec) *Node {
	if layer == p.leafExp {
		w := 1 << uint(p.leafExp)
		cells := make([]uint8, p.leafLen)
		block := geom.NewRect(geom.UniformVec(p.dims, 0), geom.UniformVec(p.dims, w-1))
		i := 0
		for pos := range block.Span() {
			cells[i] = a.At(origin.Add(pos))
			i++
		}
		return p.Leaf(cells)
	}
	half := 1 << uint(layer-1)
	children := make([]*Node, p.branching)
	for i := range children {
		off := origin.Clone()
		for d := range off {
			if i&(1<<d) != 0 {
				off[d] += half
			}
		}
		children[i] = FromArray(p, layer-1, a, off)
	}
	return p.Branch(children)
}
