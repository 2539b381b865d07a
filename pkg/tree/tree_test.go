package tree

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"ndca/pkg/geom"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func randPos(r *rand.Rand, span int) geom.BigVec {
	return geom.BigVecFromInts(r.IntN(2*span+1)-span, r.IntN(2*span+1)-span)
}

// cellRecord tracks an expected cell for comparison against the tree.
type cellRecord struct {
	pos   geom.BigVec
	state uint8
}

func setAndRecord(tr *Tree, r *rand.Rand, count, span int) map[string]cellRecord {
	cells := map[string]cellRecord{}
	for i := 0; i < count; i++ {
		pos := randPos(r, span)
		state := uint8(r.IntN(2))
		tr.Set(pos, state)
		cells[pos.String()] = cellRecord{pos: pos, state: state}
	}
	return cells
}

func requireCells(t *testing.T, tr *Tree, cells map[string]cellRecord) {
	t.Helper()
	pop := 0
	for _, c := range cells {
		require.Equal(t, c.state, tr.Get(c.pos), "cell %v", c.pos)
		if c.state != 0 {
			pop++
		}
	}
	require.Equal(t, int64(pop), tr.Population().Int64())
}

func TestSetGetAgainstMap(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)
	rng := testRNG(1)

	cells := setAndRecord(tr, rng, 200, 60)
	requireCells(t, tr, cells)

	// Unset positions read as the default state.
	require.Equal(t, uint8(0), tr.Get(geom.BigVecFromInts(1000, -1000)))
}

func TestSetCellFarOutsideGrowsTree(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)

	near := geom.BigVecFromInts(1, 1)
	tr.Set(near, 1)

	far := geom.NewBigVec(
		new(big.Int).Lsh(big.NewInt(1), 100),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 90)),
	)
	tr.Set(far, 1)

	require.Equal(t, uint8(1), tr.Get(far))
	require.Equal(t, uint8(1), tr.Get(near), "previously set cell must survive growth")
	require.Equal(t, int64(2), tr.Population().Int64())
}

func TestExpandPreservesContents(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)
	rng := testRNG(2)
	cells := setAndRecord(tr, rng, 100, 30)

	for i := 0; i < 4; i++ {
		tr.Expand()
		requireCells(t, tr, cells)
	}
}

func TestShrinkPreservesContentsAndTightens(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)
	rng := testRNG(3)
	cells := setAndRecord(tr, rng, 50, 10)

	for i := 0; i < 5; i++ {
		tr.Expand()
	}
	grown := tr.Root().Layer()

	tr.Shrink()
	require.Less(t, tr.Root().Layer(), grown)
	requireCells(t, tr, cells)

	// Shrinking never loses cells: population is unchanged.
	require.Equal(t, tr.Root().Population().Int64(), tr.Population().Int64())
}

func TestShrinkEmptyTreeStopsAtMinimum(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)
	for i := 0; i < 3; i++ {
		tr.Expand()
	}
	tr.Shrink()
	require.Equal(t, p.LeafExp()+1, tr.Root().Layer())
	require.Equal(t, uint8(0), tr.Get(geom.BigVecFromInts(0, 0)))
}

func TestStructuralSharingAcrossRegions(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)

	// The same motif written far apart canonicalizes to one shared
	// subtree: rebuilding either region's block yields the same node.
	motif := []geom.BigVec{
		geom.BigVecFromInts(0, 0),
		geom.BigVecFromInts(1, 1),
		geom.BigVecFromInts(2, 1),
	}
	shift := big.NewInt(1 << 20)
	for _, pos := range motif {
		tr.Set(pos, 1)
		tr.Set(pos.AddScalar(shift), 1)
	}
	require.Equal(t, int64(6), tr.Population().Int64())

	block := func(origin geom.BigVec) *Node {
		a := p.Empty(2).ToArray()
		for pos := range a.Bounds().Span() {
			a.Set(pos, tr.Get(origin.Add(pos.ToBig())))
		}
		return FromArray(p, 2, a, geom.UniformVec(2, 0))
	}
	first := block(geom.BigVecFromInts(0, 0))
	second := block(geom.BigVecFromInts(0, 0).AddScalar(shift))
	require.Same(t, first, second)
	require.Equal(t, int64(3), first.Population().Int64())
}

func TestBoundingRectIsTight(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)

	_, ok := tr.BoundingRect()
	require.False(t, ok)

	tr.Set(geom.BigVecFromInts(-3, 7), 1)
	tr.Set(geom.BigVecFromInts(12, -5), 1)
	tr.Set(geom.BigVecFromInts(4, 2), 1)

	r, ok := tr.BoundingRect()
	require.True(t, ok)
	require.True(t, r.Min.Eq(geom.BigVecFromInts(-3, -5)))
	require.True(t, r.Max.Eq(geom.BigVecFromInts(12, 7)))

	// Clearing the extremes tightens the bound.
	tr.Set(geom.BigVecFromInts(-3, 7), 0)
	tr.Set(geom.BigVecFromInts(12, -5), 0)
	r, ok = tr.BoundingRect()
	require.True(t, ok)
	require.True(t, r.Min.Eq(geom.BigVecFromInts(4, 2)))
	require.True(t, r.Max.Eq(geom.BigVecFromInts(4, 2)))
}

func TestNonDefaultCells(t *testing.T) {
	p := newTestPool(t, 2, 0)
	tr := NewTree(p)
	tr.Set(geom.BigVecFromInts(2, 3), 1)
	tr.Set(geom.BigVecFromInts(-1, 0), 1)

	entries := tr.NonDefaultCells()
	require.Len(t, entries, 2)
	seen := map[string]uint8{}
	for _, e := range entries {
		seen[e.Pos.String()] = e.State
	}
	require.Equal(t, uint8(1), seen[geom.BigVecFromInts(2, 3).String()])
	require.Equal(t, uint8(1), seen[geom.BigVecFromInts(-1, 0).String()])
}

func TestLeafBlocksAboveSingleCell(t *testing.T) {
	p, err := NewPool(2, 2, 2) // 4x4 leaves
	require.NoError(t, err)
	tr := NewTree(p)
	rng := testRNG(4)

	cells := setAndRecord(tr, rng, 120, 25)
	requireCells(t, tr, cells)

	for i := 0; i < 3; i++ {
		tr.Expand()
	}
	tr.Shrink()
	requireCells(t, tr, cells)
}

func TestOneAndThreeDimensionalTrees(t *testing.T) {
	for _, dims := range []int{1, 3} {
		p, err := NewPool(dims, 0, 2)
		require.NoError(t, err)
		tr := NewTree(p)

		a := geom.UniformBigVec(dims, big.NewInt(-9))
		b := geom.UniformBigVec(dims, big.NewInt(17))
		tr.Set(a, 1)
		tr.Set(b, 1)

		require.Equal(t, uint8(1), tr.Get(a))
		require.Equal(t, uint8(1), tr.Get(b))
		require.Equal(t, int64(2), tr.Population().Int64())

		r, ok := tr.BoundingRect()
		require.True(t, ok)
		require.True(t, r.Min.Eq(a))
		require.True(t, r.Max.Eq(b))
	}
}
