// Package geom provides fixed-width and arbitrary-precision N-dimensional
// vectors and axis-aligned hyperrectangles.
package geom

import "errors"

var (
	// ErrDimensionMismatch indicates that vectors or rectangles of
	// different dimensionality were combined.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrOverflow indicates that an arbitrary-precision coordinate does
	// not fit in a fixed-width component.
	ErrOverflow = errors.New("coordinate overflow")
)
