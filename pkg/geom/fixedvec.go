package geom

import "math/big"

// FracBits is the number of fractional bits carried by FixedVec components.
const FracBits = 32

// FixedVec is an arbitrary-precision fixed-point vector: each component
// stores its coordinate scaled by 2^FracBits. It exists for callers that
// track sub-cell positions (viewports, interpolation) and need exact
// rounding back to integer lattice coordinates.
type FixedVec []*big.Int

// FixedVecFromBig returns the fixed-point representation of an integer
// vector.
func FixedVecFromBig(v BigVec) FixedVec {
	out := make(FixedVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Lsh(v[d], FracBits)
	}
	return out
}

// Dims returns the vector's dimensionality.
func (v FixedVec) Dims() int { return len(v) }

// Add returns v + o componentwise.
func (v FixedVec) Add(o FixedVec) FixedVec {
	BigVec(v).mustMatch(BigVec(o))
	out := make(FixedVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Add(v[d], o[d])
	}
	return out
}

// Floor returns the largest integer vector <= v.
func (v FixedVec) Floor() BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		// Rsh on big.Int is an arithmetic shift: floor division by 2^n.
		out[d] = new(big.Int).Rsh(v[d], FracBits)
	}
	return out
}

// Ceil returns the smallest integer vector >= v.
func (v FixedVec) Ceil() BigVec {
	out := make(BigVec, len(v))
	frac := new(big.Int).Lsh(bigInt(1), FracBits)
	frac.Sub(frac, bigInt(1))
	for d := range v {
		c := new(big.Int).Add(v[d], frac)
		out[d] = c.Rsh(c, FracBits)
	}
	return out
}

// Round returns the nearest integer vector, rounding half-up per component.
func (v FixedVec) Round() BigVec {
	out := make(BigVec, len(v))
	half := new(big.Int).Lsh(bigInt(1), FracBits-1)
	for d := range v {
		c := new(big.Int).Add(v[d], half)
		out[d] = c.Rsh(c, FracBits)
	}
	return out
}
