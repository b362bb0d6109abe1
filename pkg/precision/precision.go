// Package precision provides the floating-point tolerance policy injected
// into every geometric constructor in this library. Geometric robustness
// depends on problem scale, so the zero-tolerance is always supplied by the
// caller and never hardcoded in algorithm code.
package precision

import (
	"fmt"
	"math"
)

// Context compares floating-point values under a caller-chosen tolerance.
// Two values are considered equal when they differ by no more than the
// context epsilon. A Context is immutable and safe to share.
type Context struct {
	eps float64
}

// New returns a Context with the given epsilon. The epsilon must be a
// finite, non-negative value.
func New(eps float64) (Context, error) {
	if math.IsNaN(eps) || math.IsInf(eps, 0) {
		return Context{}, fmt.Errorf("precision: epsilon must be finite, got %v", eps)
	}
	if eps < 0 {
		return Context{}, fmt.Errorf("precision: epsilon must be non-negative, got %v", eps)
	}
	return Context{eps: eps}, nil
}

// MustNew is like New but panics on an invalid epsilon. Intended for
// package-level defaults and tests with known-good constants.
func MustNew(eps float64) Context {
	ctx, err := New(eps)
	if err != nil {
		panic(err)
	}
	return ctx
}

// Eps returns the context epsilon.
func (c Context) Eps() float64 { return c.eps }

// Eq reports whether a and b are equal within the context epsilon.
func (c Context) Eq(a, b float64) bool {
	return math.Abs(a-b) <= c.eps
}

// EqZero reports whether x is within the context epsilon of zero.
func (c Context) EqZero(x float64) bool {
	return math.Abs(x) <= c.eps
}

// Sign returns -1, 0, or +1 for x, treating values within epsilon of zero
// as zero.
func (c Context) Sign(x float64) int {
	if c.EqZero(x) {
		return 0
	}
	if x < 0 {
		return -1
	}
	return 1
}

// Compare returns -1, 0, or +1 ordering a against b, treating values within
// epsilon of each other as equal.
func (c Context) Compare(a, b float64) int {
	return c.Sign(a - b)
}

// Lt reports whether a is strictly less than b under the context epsilon.
func (c Context) Lt(a, b float64) bool { return c.Compare(a, b) < 0 }

// Lte reports whether a is less than or equal to b under the context epsilon.
func (c Context) Lte(a, b float64) bool { return c.Compare(a, b) <= 0 }

// Gt reports whether a is strictly greater than b under the context epsilon.
func (c Context) Gt(a, b float64) bool { return c.Compare(a, b) > 0 }

// Gte reports whether a is greater than or equal to b under the context
// epsilon.
func (c Context) Gte(a, b float64) bool { return c.Compare(a, b) >= 0 }
