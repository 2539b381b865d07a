package geom

import "fmt"

// Vec is a fixed-width N-dimensional integer vector. Components are stored
// per axis; all operations require both operands to share the same
// dimensionality.
type Vec []int

// NewVec returns a vector with the given components.
func NewVec(components ...int) Vec {
	v := make(Vec, len(components))
	copy(v, components)
	return v
}

// UniformVec returns a vector with every component set to c.
func UniformVec(dims, c int) Vec {
	v := make(Vec, dims)
	for d := range v {
		v[d] = c
	}
	return v
}

// Dims returns the vector's dimensionality.
func (v Vec) Dims() int { return len(v) }

// Clone returns an independent copy of v.
func (v Vec) Clone() Vec {
	return NewVec(v...)
}

func (v Vec) mustMatch(o Vec) {
	if len(v) != len(o) {
		panic(fmt.Sprintf("geom: %v vs %v: %v", v, o, ErrDimensionMismatch))
	}
}

// Add returns v + o componentwise.
func (v Vec) Add(o Vec) Vec {
	v.mustMatch(o)
	out := make(Vec, len(v))
	for d := range v {
		out[d] = v[d] + o[d]
	}
	return out
}

// Sub returns v - o componentwise.
func (v Vec) Sub(o Vec) Vec {
	v.mustMatch(o)
	out := make(Vec, len(v))
	for d := range v {
		out[d] = v[d] - o[d]
	}
	return out
}

// Scale returns v * k componentwise.
func (v Vec) Scale(k int) Vec {
	out := make(Vec, len(v))
	for d := range v {
		out[d] = v[d] * k
	}
	return out
}

// Neg returns -v.
func (v Vec) Neg() Vec { return v.Scale(-1) }

// Eq reports whether v and o are componentwise equal.
func (v Vec) Eq(o Vec) bool {
	v.mustMatch(o)
	for d := range v {
		if v[d] != o[d] {
			return false
		}
	}
	return true
}

// AllLessEq reports whether every component of v is <= the matching
// component of o.
func (v Vec) AllLessEq(o Vec) bool {
	v.mustMatch(o)
	for d := range v {
		if v[d] > o[d] {
			return false
		}
	}
	return true
}

// Min returns the componentwise minimum of v and o.
func (v Vec) Min(o Vec) Vec {
	v.mustMatch(o)
	out := make(Vec, len(v))
	for d := range v {
		out[d] = min(v[d], o[d])
	}
	return out
}

// Max returns the componentwise maximum of v and o.
func (v Vec) Max(o Vec) Vec {
	v.mustMatch(o)
	out := make(Vec, len(v))
	for d := range v {
		out[d] = max(v[d], o[d])
	}
	return out
}

// MinComponent returns the smallest component of v across its own axes.
func (v Vec) MinComponent() int {
	m := v[0]
	for _, c := range v[1:] {
		m = min(m, c)
	}
	return m
}

// MaxComponent returns the largest component of v across its own axes.
func (v Vec) MaxComponent() int {
	m := v[0]
	for _, c := range v[1:] {
		m = max(m, c)
	}
	return m
}

// ToBig widens v into an arbitrary-precision vector. Widening always
// succeeds.
func (v Vec) ToBig() BigVec {
	out := make(BigVec, len(v))
	for d := range v {
		out[d] = bigInt(int64(v[d]))
	}
	return out
}

// String renders the vector as a coordinate tuple.
func (v Vec) String() string {
	return fmt.Sprintf("%v", []int(v))
}
