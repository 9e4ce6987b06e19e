// Package numerics provides tolerance-aware floating point comparisons.
//
// Branch-and-bound bookkeeping compares lower bounds that come out of an
// external relaxation solver. Those values carry numerical noise, so all
// equality and ordering decisions on bounds go through a Tolerance instead
// of exact float comparison. The tolerance is an explicit value threaded
// through the structures that need it; there is no package-level default
// that can be mutated at runtime.
package numerics

import "math"

const (
	// DefaultEpsilon is the default comparison tolerance for bound values.
	DefaultEpsilon = 1e-9

	// Infinity is the value used for unbounded or unknown bounds. Bounds at
	// or beyond this magnitude are treated as infinite.
	Infinity = 1e20
)

// Tolerance performs epsilon-based comparisons of bound values.
// The zero value is NOT usable; construct with NewTolerance.
type Tolerance struct {
	eps float64
}

// NewTolerance returns a Tolerance with the given epsilon.
// Non-positive epsilon falls back to DefaultEpsilon.
func NewTolerance(eps float64) Tolerance {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	return Tolerance{eps: eps}
}

// Default returns a Tolerance with DefaultEpsilon.
func Default() Tolerance {
	return Tolerance{eps: DefaultEpsilon}
}

// Epsilon returns the configured epsilon.
func (t Tolerance) Epsilon() float64 { return t.eps }

// IsEQ reports whether a and b are equal within epsilon.
func (t Tolerance) IsEQ(a, b float64) bool { return math.Abs(a-b) <= t.eps }

// IsLT reports whether a is smaller than b by more than epsilon.
func (t Tolerance) IsLT(a, b float64) bool { return a < b-t.eps }

// IsLE reports whether a is not larger than b within epsilon.
func (t Tolerance) IsLE(a, b float64) bool { return a <= b+t.eps }

// IsGT reports whether a is larger than b by more than epsilon.
func (t Tolerance) IsGT(a, b float64) bool { return a > b+t.eps }

// IsGE reports whether a is not smaller than b within epsilon.
func (t Tolerance) IsGE(a, b float64) bool { return a >= b-t.eps }

// IsInfinity reports whether v is at or beyond Infinity.
func (t Tolerance) IsInfinity(v float64) bool { return v >= Infinity }
