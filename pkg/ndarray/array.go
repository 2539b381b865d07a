// Package ndarray stores dense N-dimensional blocks of cell states in
// row-major order.
package ndarray

import (
	"fmt"

	"ndca/pkg/geom"
)

// Array is an N-dimensional grid of byte-sized cell values. The last axis
// varies fastest in the backing slice, matching geom.Rect.Span order.
type Array struct {
	extent  geom.Vec
	strides []int
	data    []uint8
}

// New allocates an array with the given per-axis extent.
func New(extent geom.Vec) *Array {
	n := 1
	strides := make([]int, extent.Dims())
	for d := extent.Dims() - 1; d >= 0; d-- {
		if extent[d] <= 0 {
			panic(fmt.Sprintf("ndarray: non-positive extent %v", extent))
		}
		strides[d] = n
		n *= extent[d]
	}
	return &Array{extent: extent.Clone(), strides: strides, data: make([]uint8, n)}
}

// Cube allocates an array spanning width cells along each of dims axes.
func Cube(dims, width int) *Array {
	return New(geom.UniformVec(dims, width))
}

// Extent returns the per-axis size of the array.
func (a *Array) Extent() geom.Vec { return a.extent }

// Dims returns the array's dimensionality.
func (a *Array) Dims() int { return a.extent.Dims() }

// Cells exposes the backing slice so callers can read/write values directly.
func (a *Array) Cells() []uint8 { return a.data }

// Index returns the linear slice index for the given position.
func (a *Array) Index(pos geom.Vec) int {
	i := 0
	for d := range pos {
		i += pos[d] * a.strides[d]
	}
	return i
}

// Bounds returns the rectangle covered by the array, anchored at the origin.
func (a *Array) Bounds() geom.Rect {
	return geom.Rect{
		Min: geom.UniformVec(a.Dims(), 0),
		Max: a.extent.Sub(geom.UniformVec(a.Dims(), 1)),
	}
}

// At returns the cell at pos. Positions outside the array read as zero.
func (a *Array) At(pos geom.Vec) uint8 {
	for d := range pos {
		if pos[d] < 0 || pos[d] >= a.extent[d] {
			return 0
		}
	}
	return a.data[a.Index(pos)]
}

// Set writes the cell at pos, which must lie inside the array.
func (a *Array) Set(pos geom.Vec, state uint8) {
	a.data[a.Index(pos)] = state
}

// Fill sets every cell to state.
func (a *Array) Fill(state uint8) {
	for i := range a.data {
		a.data[i] = state
	}
}

// Clone returns an independent copy of the array.
func (a *Array) Clone() *Array {
	out := New(a.extent)
	copy(out.data, a.data)
	return out
}

// SubArray copies the cells of r (clipped against the array bounds) into a
// fresh array of r's extent. Cells outside the source read as zero.
func (a *Array) SubArray(r geom.Rect) *Array {
	out := New(r.Size())
	for pos := range r.Span() {
		out.Set(pos.Sub(r.Min), a.At(pos))
	}
	return out
}
