package tree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, dims, leafExp int) *Pool {
	t.Helper()
	p, err := NewPool(dims, leafExp, 2)
	require.NoError(t, err)
	return p
}

func TestNewPoolValidatesGeometry(t *testing.T) {
	_, err := NewPool(0, 0, 2)
	require.Error(t, err)
	_, err = NewPool(2, -1, 2)
	require.Error(t, err)
	_, err = NewPool(2, 0, 1)
	require.Error(t, err)
}

func TestLeafInterningSharesIdentity(t *testing.T) {
	p := newTestPool(t, 2, 0)

	a := p.Leaf([]uint8{1})
	b := p.Leaf([]uint8{1})
	require.Same(t, a, b)
	require.Equal(t, a.Hash(), b.Hash())

	c := p.Leaf([]uint8{0})
	require.NotSame(t, a, c)
	require.Same(t, c, p.Empty(0))
}

func TestBranchInterningSharesIdentity(t *testing.T) {
	p := newTestPool(t, 2, 0)

	live := p.Leaf([]uint8{1})
	dead := p.Empty(0)

	// Built independently, in different orders, from the same content.
	a := p.Branch([]*Node{live, dead, dead, live})
	b := p.Branch([]*Node{live, dead, dead, live})
	require.Same(t, a, b)

	upperA := p.Branch([]*Node{a, p.Empty(1), p.Empty(1), a})
	upperB := p.Branch([]*Node{b, p.Empty(1), p.Empty(1), b})
	require.Same(t, upperA, upperB)

	require.NotSame(t, a, p.Branch([]*Node{dead, live, live, dead}))
}

func TestBranchPopulationSumsChildren(t *testing.T) {
	p := newTestPool(t, 2, 0)
	live := p.Leaf([]uint8{1})
	n := p.Branch([]*Node{live, live, live, p.Empty(0)})
	require.Equal(t, int64(3), n.Population().Int64())
	require.False(t, n.IsEmpty())
	require.True(t, p.Empty(5).IsEmpty())
}

func TestEmptyNodesAreCanonicalPerLayer(t *testing.T) {
	p := newTestPool(t, 3, 0)
	e2 := p.Empty(2)
	require.Equal(t, 2, e2.Layer())
	require.Same(t, e2, p.Empty(2))

	// Assembling an empty branch by hand lands on the pinned instance.
	children := make([]*Node, p.Branching())
	for i := range children {
		children[i] = p.Empty(1)
	}
	require.Same(t, e2, p.Branch(children))
}

func TestInternIsSafeUnderConcurrentInsertion(t *testing.T) {
	p := newTestPool(t, 2, 0)

	const workers = 8
	results := make([]*Node, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			live := p.Leaf([]uint8{1})
			dead := p.Empty(0)
			results[w] = p.Branch([]*Node{live, dead, live, dead})
		}()
	}
	wg.Wait()

	for _, n := range results[1:] {
		require.Same(t, results[0], n)
	}
}

func TestCollectKeepsReachableAndDropsGarbage(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)

	rng := testRNG(7)
	cells := setAndRecord(tr, rng, 60, 40)

	// Orphan some structure to create garbage.
	scratch := tr.Clone()
	for i := 0; i < 40; i++ {
		scratch.Set(randPos(rng, 40), 1)
	}

	before := p.Size()
	p.Collect(tr.Root())
	after := p.Size()
	require.Less(t, after, before)

	requireCells(t, tr, cells)

	// Idempotent for an unchanged root set.
	p.Collect(tr.Root())
	require.Equal(t, after, p.Size())
}

func TestCollectFollowsFutureEdges(t *testing.T) {
	p := newTestPool(t, 2, 0)
	live := p.Leaf([]uint8{1})
	dead := p.Empty(0)
	n := p.Branch([]*Node{live, dead, dead, dead})
	future := p.Branch([]*Node{dead, dead, dead, live})
	n.SetFuture(future)

	p.Collect(n)
	require.Same(t, future, n.Future())
	// The future's content is still interned, not rebuilt.
	require.Same(t, future, p.Branch([]*Node{dead, dead, dead, live}))
	require.Equal(t, future.ID(), n.Future().ID())
}
