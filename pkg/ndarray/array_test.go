package ndarray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ndca/pkg/geom"
)

func TestIndexIsRowMajorLastAxisFastest(t *testing.T) {
	a := New(geom.NewVec(2, 3, 4))
	require.Equal(t, 24, len(a.Cells()))

	require.Equal(t, 0, a.Index(geom.NewVec(0, 0, 0)))
	require.Equal(t, 1, a.Index(geom.NewVec(0, 0, 1)))
	require.Equal(t, 4, a.Index(geom.NewVec(0, 1, 0)))
	require.Equal(t, 12, a.Index(geom.NewVec(1, 0, 0)))
	require.Equal(t, 23, a.Index(geom.NewVec(1, 2, 3)))

	// Span enumerates cells in backing-slice order.
	i := 0
	for pos := range a.Bounds().Span() {
		require.Equal(t, i, a.Index(pos))
		i++
	}
	require.Equal(t, 24, i)
}

func TestAtOutsideReadsZero(t *testing.T) {
	a := Cube(2, 4)
	a.Set(geom.NewVec(0, 0), 7)
	require.Equal(t, uint8(7), a.At(geom.NewVec(0, 0)))
	require.Equal(t, uint8(0), a.At(geom.NewVec(-1, 0)))
	require.Equal(t, uint8(0), a.At(geom.NewVec(0, 4)))
}

func TestCloneIsIndependent(t *testing.T) {
	a := Cube(1, 8)
	a.Set(geom.NewVec(3), 1)
	b := a.Clone()
	b.Set(geom.NewVec(3), 2)
	require.Equal(t, uint8(1), a.At(geom.NewVec(3)))
	require.Equal(t, uint8(2), b.At(geom.NewVec(3)))
}

func TestSubArrayClipsAgainstBounds(t *testing.T) {
	a := Cube(2, 4)
	for pos := range a.Bounds().Span() {
		a.Set(pos, uint8(a.Index(pos)+1))
	}

	sub := a.SubArray(geom.NewRect(geom.NewVec(2, 2), geom.NewVec(5, 5)))
	require.Equal(t, geom.NewVec(4, 4), sub.Extent())
	require.Equal(t, a.At(geom.NewVec(2, 2)), sub.At(geom.NewVec(0, 0)))
	require.Equal(t, a.At(geom.NewVec(3, 3)), sub.At(geom.NewVec(1, 1)))
	// Outside the source reads as zero.
	require.Equal(t, uint8(0), sub.At(geom.NewVec(3, 3)))
}
