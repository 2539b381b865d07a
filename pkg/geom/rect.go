package geom

import (
	"fmt"
	"iter"
)

// Rect is an axis-aligned hyperrectangle with inclusive fixed-width bounds.
// Min <= Max holds componentwise for every constructed Rect.
type Rect struct {
	Min Vec
	Max Vec
}

// NewRect returns the rectangle spanning a and b, normalizing the corners so
// Min <= Max componentwise.
func NewRect(a, b Vec) Rect {
	a.mustMatch(b)
	return Rect{Min: a.Min(b), Max: a.Max(b)}
}

// Dims returns the rectangle's dimensionality.
func (r Rect) Dims() int { return r.Min.Dims() }

// Size returns the extent of the rectangle along each axis.
func (r Rect) Size() Vec {
	return r.Max.Sub(r.Min).Add(UniformVec(r.Dims(), 1))
}

// Count returns the number of lattice points contained in the rectangle.
func (r Rect) Count() int {
	n := 1
	for _, e := range r.Size() {
		n *= e
	}
	return n
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Vec) bool {
	return r.Min.AllLessEq(p) && p.AllLessEq(r.Max)
}

// Intersect returns the overlap of r and o. ok is false when the two
// rectangles are disjoint.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	lo := r.Min.Max(o.Min)
	hi := r.Max.Min(o.Max)
	if !lo.AllLessEq(hi) {
		return Rect{}, false
	}
	return Rect{Min: lo, Max: hi}, true
}

// Union returns the smallest rectangle containing both r and o
// (componentwise min/max reduction of the corners).
func (r Rect) Union(o Rect) Rect {
	return Rect{Min: r.Min.Min(o.Min), Max: r.Max.Max(o.Max)}
}

// Split divides the rectangle into an equal grid of sub-rectangles, with
// per[d] pieces along axis d. The extent along each axis must divide evenly.
func (r Rect) Split(per Vec) ([]Rect, error) {
	size := r.Size()
	size.mustMatch(per)
	step := make(Vec, r.Dims())
	for d := range per {
		if per[d] <= 0 || size[d]%per[d] != 0 {
			return nil, fmt.Errorf("geom: cannot split extent %v into %v pieces", size, per)
		}
		step[d] = size[d] / per[d]
	}
	var out []Rect
	grid := Rect{Min: UniformVec(r.Dims(), 0), Max: per.Sub(UniformVec(r.Dims(), 1))}
	for cell := range grid.Span() {
		lo := r.Min.Add(mulVec(cell, step))
		hi := lo.Add(step).Sub(UniformVec(r.Dims(), 1))
		out = append(out, Rect{Min: lo, Max: hi})
	}
	return out, nil
}

func mulVec(a, b Vec) Vec {
	out := make(Vec, len(a))
	for d := range a {
		out[d] = a[d] * b[d]
	}
	return out
}

// Span iterates over every lattice point in the rectangle, last axis
// fastest. The sequence is finite and restartable.
func (r Rect) Span() iter.Seq[Vec] {
	return func(yield func(Vec) bool) {
		pos := r.Min.Clone()
		for {
			if !yield(pos.Clone()) {
				return
			}
			d := r.Dims() - 1
			for ; d >= 0; d-- {
				pos[d]++
				if pos[d] <= r.Max[d] {
					break
				}
				pos[d] = r.Min[d]
			}
			if d < 0 {
				return
			}
		}
	}
}

// SpanRects iterates over the unit-aligned sub-rectangles of extent unit
// that span the region, last axis fastest. Sub-rectangles are aligned to
// multiples of unit relative to the region's minimum corner; trailing
// pieces are clipped to the region. The sequence is finite and restartable.
func (r Rect) SpanRects(unit Vec) iter.Seq[Rect] {
	r.Min.mustMatch(unit)
	return func(yield func(Rect) bool) {
		size := r.Size()
		counts := make(Vec, r.Dims())
		for d := range counts {
			counts[d] = (size[d] + unit[d] - 1) / unit[d]
		}
		grid := Rect{Min: UniformVec(r.Dims(), 0), Max: counts.Sub(UniformVec(r.Dims(), 1))}
		for cell := range grid.Span() {
			lo := r.Min.Add(mulVec(cell, unit))
			hi := lo.Add(unit).Sub(UniformVec(r.Dims(), 1)).Min(r.Max)
			if !yield(Rect{Min: lo, Max: hi}) {
				return
			}
		}
	}
}

// String renders the rectangle as a min..max pair.
func (r Rect) String() string {
	return fmt.Sprintf("%v..%v", r.Min, r.Max)
}
