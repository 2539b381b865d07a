package geom

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

func bigInt(v int64) *big.Int { return big.NewInt(v) }

// BigVec is an arbitrary-precision N-dimensional integer vector. All
// arithmetic is exact; operations allocate fresh results and never alias
// their operands' components.
type BigVec []*big.Int

// NewBigVec returns a vector owning copies of the given components.
func NewBigVec(components ...*big.Int) BigVec {
	v := make(BigVec, len(components))
	for d, c := range components {
		v[d] = new(big.Int).Set(c)
	}
	return v
}

// BigVecFromInts returns an arbitrary-precision vector with the given
// fixed-width components.
func BigVecFromInts(components ...int) BigVec {
	v := make(BigVec, len(components))
	for d, c := range components {
		v[d] = bigInt(int64(c))
	}
	return v
}

// UniformBigVec returns a vector with every component set to a copy of c.
func UniformBigVec(dims int, c *big.Int) BigVec {
	v := make(BigVec, dims)
	for d := range v {
		v[d] = new(big.Int).Set(c)
	}
	return v
}

// ZeroBigVec returns the origin of the given dimensionality.
func ZeroBigVec(dims int) BigVec {
	return UniformBigVec(dims, bigInt(0))
}

// Dims returns the vector's dimensionality.
func (v BigVec) Dims() int { return len(v) }

// Clone returns an independent copy of v.
func (v BigVec) Clone() BigVec {
	return NewBigVec(v...)
}

func (v BigVec) mustMatch(o BigVec) {
	if len(v) != len(o) {
		panic(fmt.Sprintf("geom: %v vs %v: %v", v, o, ErrDimensionMismatch))
	}
}

// Add returns v + o componentwise.
func (v BigVec) Add(o BigVec) BigVec {
	v.mustMatch(o)
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Add(v[d], o[d])
	}
	return out
}

// Sub returns v - o componentwise.
func (v BigVec) Sub(o BigVec) BigVec {
	v.mustMatch(o)
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Sub(v[d], o[d])
	}
	return out
}

// AddScalar returns v with k added to every component.
func (v BigVec) AddScalar(k *big.Int) BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Add(v[d], k)
	}
	return out
}

// SubScalar returns v with k subtracted from every component.
func (v BigVec) SubScalar(k *big.Int) BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Sub(v[d], k)
	}
	return out
}

// Scale returns v * k componentwise.
func (v BigVec) Scale(k *big.Int) BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Mul(v[d], k)
	}
	return out
}

// Neg returns -v.
func (v BigVec) Neg() BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = new(big.Int).Neg(v[d])
	}
	return out
}

// Eq reports whether v and o are componentwise equal.
func (v BigVec) Eq(o BigVec) bool {
	v.mustMatch(o)
	for d := range v {
		if v[d].Cmp(o[d]) != 0 {
			return false
		}
	}
	return true
}

// AllLessEq reports whether every component of v is <= the matching
// component of o.
func (v BigVec) AllLessEq(o BigVec) bool {
	v.mustMatch(o)
	for d := range v {
		if v[d].Cmp(o[d]) > 0 {
			return false
		}
	}
	return true
}

// Min returns the componentwise minimum of v and o.
func (v BigVec) Min(o BigVec) BigVec {
	v.mustMatch(o)
	out := make(BigVec, len(v))
	for d := range v {
		c := v[d]
		if o[d].Cmp(c) < 0 {
			c = o[d]
		}
		out[d] = new(big.Int).Set(c)
	}
	return out
}

// Max returns the componentwise maximum of v and o.
func (v BigVec) Max(o BigVec) BigVec {
	v.mustMatch(o)
	out := make(BigVec, len(v))
	for d := range v {
		c := v[d]
		if o[d].Cmp(c) > 0 {
			c = o[d]
		}
		out[d] = new(big.Int).Set(c)
	}
	return out
}

// MinComponent returns a copy of the smallest component across the vector's
// own axes.
func (v BigVec) MinComponent() *big.Int {
	m := v[0]
	for _, c := range v[1:] {
		if c.Cmp(m) < 0 {
			m = c
		}
	}
	return new(big.Int).Set(m)
}

// MaxComponent returns a copy of the largest component across the vector's
// own axes.
func (v BigVec) MaxComponent() *big.Int {
	m := v[0]
	for _, c := range v[1:] {
		if c.Cmp(m) > 0 {
			m = c
		}
	}
	return new(big.Int).Set(m)
}

// ToVec narrows v into a fixed-width vector. It fails with ErrOverflow if
// any component falls outside the native int range.
func (v BigVec) ToVec() (Vec, error) {
	out := make(Vec, len(v))
	for d := range v {
		if !v[d].IsInt64() {
			return nil, fmt.Errorf("geom: component %d of %v: %w", d, v, ErrOverflow)
		}
		c := v[d].Int64()
		if c < math.MinInt || c > math.MaxInt {
			return nil, fmt.Errorf("geom: component %d of %v: %w", d, v, ErrOverflow)
		}
		out[d] = int(c)
	}
	return out, nil
}

// String renders the vector as a coordinate tuple.
func (v BigVec) String() string {
	parts := make([]string, len(v))
	for d := range v {
		parts[d] = v[d].String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
