package tree

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/big"
	"slices"
	"sync"
)

// Pool is the canonicalization store for one simulation session: it maps
// node content to a single shared instance, so structural equality between
// nodes from the same pool is pointer equality. The pool is the only shared
// mutable state in the system; all access is serialized by its mutex.
type Pool struct {
	dims      int
	leafExp   int
	states    uint8
	branching int // 2^dims
	leafLen   int // 2^(dims*leafExp)

	mu      sync.Mutex
	nodes   map[string]*Node
	nextID  uint64
	empties []*Node // canonical empty node per layer, empties[layer-leafExp]
}

// NewPool creates a canonicalization pool for nodes of the given
// dimensionality, leaf exponent (leaves span 2^leafExp cells per axis), and
// state count.
func NewPool(dims, leafExp int, states uint8) (*Pool, error) {
	if dims < 1 {
		return nil, fmt.Errorf("tree: dimensionality %d out of range", dims)
	}
	if leafExp < 0 {
		return nil, fmt.Errorf("tree: leaf exponent %d out of range", leafExp)
	}
	if states < 2 {
		return nil, fmt.Errorf("tree: state count %d out of range", states)
	}
	return &Pool{
		dims:      dims,
		leafExp:   leafExp,
		states:    states,
		branching: 1 << uint(dims),
		leafLen:   1 << uint(dims*leafExp),
		nodes:     make(map[string]*Node),
	}, nil
}

// Dims returns the dimensionality shared by every node in the pool.
func (p *Pool) Dims() int { return p.dims }

// LeafExp returns the leaf exponent: leaves span 2^LeafExp cells per axis.
func (p *Pool) LeafExp() int { return p.leafExp }

// States returns the configured number of cell states.
func (p *Pool) States() uint8 { return p.states }

// Branching returns the number of children per branch, 2^Dims.
func (p *Pool) Branching() int { return p.branching }

// LeafLen returns the number of cells in a leaf block.
func (p *Pool) LeafLen() int { return p.leafLen }

// Size returns the number of interned nodes.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.nodes)
}

func hashKey(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// intern returns the canonical node for key, building and inserting a fresh
// one only if no structurally equal node exists. First writer wins;
// concurrent candidates for the same content are discarded.
func (p *Pool) intern(key string, layer int, build func(id uint64) *Node) *Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.internLocked(key, layer, build)
}

func (p *Pool) internLocked(key string, layer int, build func(id uint64) *Node) *Node {
	if n, ok := p.nodes[key]; ok {
		if n.layer != layer {
			panic(fmt.Sprintf("tree: pool consistency violation: key collision across layers %d and %d", n.layer, layer))
		}
		return n
	}
	p.nextID++
	n := build(p.nextID)
	p.nodes[key] = n
	return n
}

// Leaf interns a leaf node with the given cell block. The block length must
// equal LeafLen; its contents are copied.
func (p *Pool) Leaf(cells []uint8) *Node {
	if len(cells) != p.leafLen {
		panic(fmt.Sprintf("tree: leaf block of %d cells, want %d", len(cells), p.leafLen))
	}
	key := "l" + string(cells)
	return p.intern(key, p.leafExp, func(id uint64) *Node {
		pop := 0
		for _, c := range cells {
			if c != 0 {
				pop++
			}
		}
		return &Node{
			pool:  p,
			id:    id,
			layer: p.leafExp,
			cells: slices.Clone(cells),
			hash:  hashKey(key),
			key:   key,
			pop:   big.NewInt(int64(pop)),
		}
	})
}

// Branch interns a branch node with the given 2^N children, all of which
// must be canonical members of this pool at the same layer.
func (p *Pool) Branch(children []*Node) *Node {
	if len(children) != p.branching {
		panic(fmt.Sprintf("tree: branch with %d children, want %d", len(children), p.branching))
	}
	layer := children[0].layer
	buf := make([]byte, 1+8*len(children))
	buf[0] = 'b'
	for i, c := range children {
		if c == nil || c.pool != p || c.layer != layer {
			panic("tree: branch child is not a canonical sibling")
		}
		binary.LittleEndian.PutUint64(buf[1+8*i:], c.id)
	}
	key := string(buf)
	return p.intern(key, layer+1, func(id uint64) *Node {
		pop := new(big.Int)
		for _, c := range children {
			pop.Add(pop, c.pop)
		}
		return &Node{
			pool:     p,
			id:       id,
			layer:    layer + 1,
			children: slices.Clone(children),
			hash:     hashKey(key),
			key:      key,
			pop:      pop,
		}
	})
}

// Empty returns the canonical all-default node at the given layer. Empty
// nodes are pinned and survive collection.
func (p *Pool) Empty(layer int) *Node {
	if layer < p.leafExp {
		panic(fmt.Sprintf("tree: empty node below leaf layer (%d < %d)", layer, p.leafExp))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.empties) <= layer-p.leafExp {
		next := len(p.empties) + p.leafExp
		var n *Node
		if next == p.leafExp {
			cells := make([]uint8, p.leafLen)
			key := "l" + string(cells)
			n = p.internLocked(key, next, func(id uint64) *Node {
				return &Node{pool: p, id: id, layer: next, cells: cells, hash: hashKey(key), key: key, pop: new(big.Int)}
			})
		} else {
			children := make([]*Node, p.branching)
			for i := range children {
				children[i] = p.empties[len(p.empties)-1]
			}
			buf := make([]byte, 1+8*len(children))
			buf[0] = 'b'
			for i, c := range children {
				binary.LittleEndian.PutUint64(buf[1+8*i:], c.id)
			}
			key := string(buf)
			n = p.internLocked(key, next, func(id uint64) *Node {
				return &Node{pool: p, id: id, layer: next, children: children, hash: hashKey(key), key: key, pop: new(big.Int)}
			})
		}
		p.empties = append(p.empties, n)
	}
	return p.empties[layer-p.leafExp]
}

// Collect removes every node unreachable from the given roots by following
// child and memoized-future references, releasing the underlying storage.
// The canonical empty nodes are always retained. Collect must not run
// concurrently with an in-flight step: the step's intermediate nodes are
// not tracked as roots.
func (p *Pool) Collect(roots ...*Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	marked := make(map[uint64]struct{}, len(p.nodes))
	stack := make([]*Node, 0, len(roots)+len(p.empties))
	for _, r := range roots {
		if r == nil {
			continue
		}
		if r.pool != p {
			panic("tree: collect root from another pool")
		}
		stack = append(stack, r)
	}
	stack = append(stack, p.empties...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := marked[n.id]; ok {
			continue
		}
		marked[n.id] = struct{}{}
		stack = append(stack, n.children...)
		if f := n.future.Load(); f != nil {
			stack = append(stack, f)
		}
	}

	swept := make(map[string]*Node, len(marked))
	for key, n := range p.nodes {
		if _, ok := marked[n.id]; ok {
			swept[key] = n
		}
	}
	p.nodes = swept
}
