package tree

import (
	"fmt"
	"slices"

	"ndca/pkg/geom"
)

// FlatNode is one entry of a flattened tree: a leaf's cell block or a
// branch's child indices, referenced by position in the FlatTree node
// slice.
type FlatNode struct {
	Layer    int
	Children []int   // branch: 2^N indices into the node slice
	Cells    []uint8 // leaf: dense cell block
}

// FlatTree is the linearized export form of a tree: canonical nodes
// referenced by integer index instead of shared pointers, suitable for
// interchange. Index 0 is reserved for the empty node at any layer;
// children appear before their parents.
type FlatTree struct {
	Dims    int
	LeafExp int
	States  uint8

	// Root indexes the root entry; 0 when the whole tree is empty.
	Root int
	// RootLayer records the root's layer, which index 0 erases.
	RootLayer int
	// Offset is the absolute coordinate of the root's minimum corner.
	Offset geom.BigVec

	Nodes []FlatNode
}

// Flatten converts the tree's canonical DAG into a linear node array. Each
// distinct node appears exactly once; every all-default subtree collapses
// to index 0 regardless of its layer.
func Flatten(t *Tree) *FlatTree {
	ft := &FlatTree{
		Dims:      t.pool.dims,
		LeafExp:   t.pool.leafExp,
		States:    t.pool.states,
		RootLayer: t.root.layer,
		Offset:    t.Offset(),
		Nodes:     []FlatNode{{}}, // index 0: empty at any layer
	}
	index := map[uint64]int{}
	ft.Root = flattenNode(t.root, ft, index)
	return ft
}

func flattenNode(n *Node, ft *FlatTree, index map[uint64]int) int {
	if n.IsEmpty() {
		return 0
	}
	if i, ok := index[n.id]; ok {
		return i
	}
	var fn FlatNode
	fn.Layer = n.layer
	if n.IsLeaf() {
		fn.Cells = slices.Clone(n.cells)
	} else {
		fn.Children = make([]int, len(n.children))
		for i, c := range n.children {
			fn.Children[i] = flattenNode(c, ft, index)
		}
	}
	i := len(ft.Nodes)
	ft.Nodes = append(ft.Nodes, fn)
	index[n.id] = i
	return i
}

// ReconstructFunc rebuilds one canonical node from a flattened entry. fn is
// nil for index 0, in which case the function must return the empty leaf at
// the pool's minimum layer. For branch entries, children holds the already
// reconstructed child nodes in octant order.
type ReconstructFunc func(p *Pool, fn *FlatNode, children []*Node) (*Node, error)

// Reconstruct is the default ReconstructFunc: it interns leaves and
// branches back into the pool as-is.
func Reconstruct(p *Pool, fn *FlatNode, children []*Node) (*Node, error) {
	if fn == nil {
		return p.Empty(p.leafExp), nil
	}
	if fn.Cells != nil {
		if len(fn.Cells) != p.leafLen {
			return nil, fmt.Errorf("tree: flat leaf block of %d cells, want %d", len(fn.Cells), p.leafLen)
		}
		return p.Leaf(fn.Cells), nil
	}
	return p.Branch(children), nil
}

// Unflatten rebuilds a tree from its flattened form, interning every node
// through the given pool. The pool's geometry must match the flattened
// tree's.
func (ft *FlatTree) Unflatten(p *Pool, reconstruct ReconstructFunc) (*Tree, error) {
	if p.dims != ft.Dims || p.leafExp != ft.LeafExp || p.states != ft.States {
		return nil, fmt.Errorf("tree: pool geometry (%d,%d,%d) does not match flat tree (%d,%d,%d)",
			p.dims, p.leafExp, p.states, ft.Dims, ft.LeafExp, ft.States)
	}
	if ft.Offset.Dims() != p.dims {
		return nil, fmt.Errorf("tree: flat offset %v: %w", ft.Offset, geom.ErrDimensionMismatch)
	}

	resolved := make([]*Node, len(ft.Nodes))
	for i := 1; i < len(ft.Nodes); i++ {
		fn := &ft.Nodes[i]
		var children []*Node
		if fn.Cells == nil {
			if len(fn.Children) != p.branching {
				return nil, fmt.Errorf("tree: flat branch with %d children, want %d", len(fn.Children), p.branching)
			}
			children = make([]*Node, p.branching)
			for j, ci := range fn.Children {
				switch {
				case ci == 0:
					children[j] = p.Empty(fn.Layer - 1)
				case ci > 0 && ci < i && resolved[ci] != nil:
					children[j] = resolved[ci]
				default:
					return nil, fmt.Errorf("tree: flat node %d references unresolved child %d", i, ci)
				}
			}
		}
		n, err := reconstruct(p, fn, children)
		if err != nil {
			return nil, err
		}
		resolved[i] = n
	}

	var root *Node
	if ft.Root == 0 {
		n, err := reconstruct(p, nil, nil)
		if err != nil {
			return nil, err
		}
		root = n
	} else {
		if ft.Root < 0 || ft.Root >= len(ft.Nodes) || resolved[ft.Root] == nil {
			return nil, fmt.Errorf("tree: flat root index %d out of range", ft.Root)
		}
		root = resolved[ft.Root]
	}

	t := NewTree(p)
	if root.layer >= p.leafExp+1 {
		t.SetRoot(root, ft.Offset)
	}
	// An empty-leaf root (the index-0 callback contract) stays covered by
	// the fresh tree's empty root; the contents are identical.
	return t, nil
}
