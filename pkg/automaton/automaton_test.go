package automaton

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ndca/pkg/geom"
	"ndca/pkg/rule"
	"ndca/pkg/rules/life"
	"ndca/pkg/rules/wolfram"
	"ndca/pkg/tree"
)

func newLife(t *testing.T) *Automaton {
	t.Helper()
	a, err := New(life.New(), Config{})
	require.NoError(t, err)
	return a
}

func mustSet(t *testing.T, a *Automaton, x, y int) {
	t.Helper()
	require.NoError(t, a.SetCell(geom.BigVecFromInts(x, y), 1))
}

func TestNewUsesRuleDimensionality(t *testing.T) {
	a := newLife(t)
	require.Equal(t, 2, a.Dims())
	require.Equal(t, "life", a.Rule().Name())

	w, err := New(wolfram.New(110), Config{})
	require.NoError(t, err)
	require.Equal(t, 1, w.Dims())
}

func TestNewRejectsConflictingDimensionality(t *testing.T) {
	_, err := New(life.New(), Config{Dims: 3})
	require.ErrorIs(t, err, geom.ErrDimensionMismatch)
}

func TestCellAccessValidation(t *testing.T) {
	a := newLife(t)

	err := a.SetCell(geom.BigVecFromInts(1, 2, 3), 1)
	require.ErrorIs(t, err, geom.ErrDimensionMismatch)
	_, err = a.GetCell(geom.BigVecFromInts(1))
	require.ErrorIs(t, err, geom.ErrDimensionMismatch)

	err = a.SetCell(geom.BigVecFromInts(0, 0), 2)
	require.ErrorIs(t, err, rule.ErrInvalidState)

	mustSet(t, a, 0, 0)
	got, err := a.GetCell(geom.BigVecFromInts(0, 0))
	require.NoError(t, err)
	require.Equal(t, uint8(1), got)

	// Unexplored space reads as the default state.
	got, err = a.GetCell(geom.BigVecFromInts(1_000_000, -1_000_000))
	require.NoError(t, err)
	require.Equal(t, uint8(0), got)
}

func TestBlinkerOscillatesAndCountsGenerations(t *testing.T) {
	a := newLife(t)
	for x := -1; x <= 1; x++ {
		mustSet(t, a, x, 0)
	}

	require.NoError(t, a.StepN(1))
	require.Equal(t, int64(3), a.Population().Int64())
	for y := -1; y <= 1; y++ {
		got, err := a.GetCell(geom.BigVecFromInts(0, y))
		require.NoError(t, err)
		require.Equal(t, uint8(1), got, "cell (0,%d)", y)
	}

	require.NoError(t, a.StepN(1))
	got, err := a.GetCell(geom.BigVecFromInts(-1, 0))
	require.NoError(t, err)
	require.Equal(t, uint8(1), got)

	require.NoError(t, a.Step(big.NewInt(100)))
	require.Equal(t, int64(102), a.Generation().Int64())
	require.Equal(t, int64(3), a.Population().Int64())
}

func TestBoundingRectTracksPattern(t *testing.T) {
	a := newLife(t)
	_, ok := a.BoundingRect()
	require.False(t, ok)

	mustSet(t, a, -2, 5)
	mustSet(t, a, 7, -1)
	r, ok := a.BoundingRect()
	require.True(t, ok)
	require.True(t, r.Min.Eq(geom.BigVecFromInts(-2, -1)))
	require.True(t, r.Max.Eq(geom.BigVecFromInts(7, 5)))
}

func TestCollectBetweenStepsPreservesBehavior(t *testing.T) {
	a := newLife(t)
	b := newLife(t)

	seed := [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	for _, c := range seed {
		mustSet(t, a, c[0], c[1])
		mustSet(t, b, c[0], c[1])
	}

	for i := 0; i < 6; i++ {
		require.NoError(t, a.StepN(2))
		require.NoError(t, b.StepN(2))
		a.Collect()
	}

	require.Equal(t, a.Population().Int64(), b.Population().Int64())
	ra, ok := a.BoundingRect()
	require.True(t, ok)
	rb, ok := b.BoundingRect()
	require.True(t, ok)
	require.True(t, ra.Min.Eq(rb.Min))
	require.True(t, ra.Max.Eq(rb.Max))
}

func TestFlattenExportRoundTrips(t *testing.T) {
	a := newLife(t)
	mustSet(t, a, 3, -4)
	mustSet(t, a, -10, 10)

	ft := a.Flatten()
	pool, err := tree.NewPool(2, 0, 2)
	require.NoError(t, err)
	back, err := ft.Unflatten(pool, tree.Reconstruct)
	require.NoError(t, err)
	require.Equal(t, uint8(1), back.Get(geom.BigVecFromInts(3, -4)))
	require.Equal(t, uint8(1), back.Get(geom.BigVecFromInts(-10, 10)))
	require.Equal(t, int64(2), back.Population().Int64())
}

func TestLeafBlockConfig(t *testing.T) {
	a, err := New(life.New(), Config{LeafExp: 2, Parallelism: 4})
	require.NoError(t, err)
	for x := -1; x <= 1; x++ {
		mustSet(t, a, x, 0)
	}
	require.NoError(t, a.StepN(3))
	require.Equal(t, int64(3), a.Population().Int64())
	got, err := a.GetCell(geom.BigVecFromInts(0, 0))
	require.NoError(t, err)
	require.Equal(t, uint8(1), got)
}
