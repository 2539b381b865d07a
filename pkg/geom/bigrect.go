package geom

import (
	"fmt"
	"math/big"
)

// BigRect is an axis-aligned hyperrectangle with inclusive
// arbitrary-precision bounds. Min <= Max holds componentwise for every
// constructed BigRect.
type BigRect struct {
	Min BigVec
	Max BigVec
}

// NewBigRect returns the rectangle spanning a and b, normalizing the corners
// so Min <= Max componentwise.
func NewBigRect(a, b BigVec) BigRect {
	a.mustMatch(b)
	return BigRect{Min: a.Min(b), Max: a.Max(b)}
}

// Dims returns the rectangle's dimensionality.
func (r BigRect) Dims() int { return r.Min.Dims() }

// Size returns the extent of the rectangle along each axis.
func (r BigRect) Size() BigVec {
	return r.Max.Sub(r.Min).AddScalar(bigInt(1))
}

// Count returns the number of lattice points contained in the rectangle.
func (r BigRect) Count() *big.Int {
	n := bigInt(1)
	for _, e := range r.Size() {
		n.Mul(n, e)
	}
	return n
}

// Contains reports whether p lies inside the rectangle.
func (r BigRect) Contains(p BigVec) bool {
	return r.Min.AllLessEq(p) && p.AllLessEq(r.Max)
}

// Intersect returns the overlap of r and o. ok is false when the two
// rectangles are disjoint.
func (r BigRect) Intersect(o BigRect) (BigRect, bool) {
	lo := r.Min.Max(o.Min)
	hi := r.Max.Min(o.Max)
	if !lo.AllLessEq(hi) {
		return BigRect{}, false
	}
	return BigRect{Min: lo, Max: hi}, true
}

// Union returns the smallest rectangle containing both r and o.
func (r BigRect) Union(o BigRect) BigRect {
	return BigRect{Min: r.Min.Min(o.Min), Max: r.Max.Max(o.Max)}
}

// ToRect narrows the bounds into a fixed-width rectangle, failing with
// ErrOverflow if either corner is out of range.
func (r BigRect) ToRect() (Rect, error) {
	lo, err := r.Min.ToVec()
	if err != nil {
		return Rect{}, err
	}
	hi, err := r.Max.ToVec()
	if err != nil {
		return Rect{}, err
	}
	return Rect{Min: lo, Max: hi}, nil
}

// String renders the rectangle as a min..max pair.
func (r BigRect) String() string {
	return fmt.Sprintf("%v..%v", r.Min, r.Max)
}
