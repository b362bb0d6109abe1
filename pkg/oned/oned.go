// Package oned implements one-dimensional Euclidean geometry: oriented
// points (the 1D hyperplane), their trivial subsets, and intervals. The
// interval type doubles as the embedded subspace region of 2D line subsets,
// which represent segments and rays as intervals along a line.
package oned

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

// clamp limits v to the inclusive range [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OrientedPoint is the 1D hyperplane: a location on the number line with an
// orientation. A positive-facing point has its plus side toward +infinity.
type OrientedPoint struct {
	location       float64
	positiveFacing bool
	prec           precision.Context
}

// NewOrientedPoint returns an oriented point at the given location. The
// location must be finite.
func NewOrientedPoint(location float64, positiveFacing bool, prec precision.Context) (OrientedPoint, error) {
	if math.IsNaN(location) || math.IsInf(location, 0) {
		return OrientedPoint{}, fmt.Errorf("oned: oriented point location must be finite, got %v", location)
	}
	return OrientedPoint{location: location, positiveFacing: positiveFacing, prec: prec}, nil
}

// Location returns the point's position on the number line.
func (p OrientedPoint) Location() float64 { return p.location }

// PositiveFacing reports whether the plus side is toward +infinity.
func (p OrientedPoint) PositiveFacing() bool { return p.positiveFacing }

// Precision returns the point's precision context.
func (p OrientedPoint) Precision() precision.Context { return p.prec }

// Offset returns the signed distance from the point to x; positive values
// are on the plus side.
func (p OrientedPoint) Offset(x float64) float64 {
	if p.positiveFacing {
		return x - p.location
	}
	return p.location - x
}

// Classify returns the side of the oriented point that x lies on.
func (p OrientedPoint) Classify(x float64) bsp.Side {
	return bsp.Side(p.prec.Sign(p.Offset(x)))
}

// Contains reports whether x coincides with the point within tolerance.
func (p OrientedPoint) Contains(x float64) bool {
	return p.Classify(x) == bsp.SideOn
}

// Project returns the point's location; every value projects onto it.
func (p OrientedPoint) Project(float64) float64 { return p.location }

// Reverse returns the point with flipped orientation.
func (p OrientedPoint) Reverse() OrientedPoint {
	return OrientedPoint{location: p.location, positiveFacing: !p.positiveFacing, prec: p.prec}
}

// SimilarOrientation reports whether the other point faces the same way.
func (p OrientedPoint) SimilarOrientation(other OrientedPoint) bool {
	return p.positiveFacing == other.positiveFacing
}

// Span returns the subset covering the entire hyperplane, which in 1D is
// the point itself.
func (p OrientedPoint) Span() *SubOrientedPoint {
	return &SubOrientedPoint{point: p}
}

// Compile-time contract checks.
var (
	_ bsp.Hyperplane[float64, OrientedPoint, *SubOrientedPoint]       = OrientedPoint{}
	_ bsp.HyperplaneSubset[float64, OrientedPoint, *SubOrientedPoint] = (*SubOrientedPoint)(nil)
)

// SubOrientedPoint is the convex subset of a 1D hyperplane. A hyperplane in
// 1D is a single point, so the subset is always the whole point.
type SubOrientedPoint struct {
	point OrientedPoint
}

// Hyperplane returns the oriented point the subset lies on.
func (s *SubOrientedPoint) Hyperplane() OrientedPoint { return s.point }

// Location returns the subset's position on the number line.
func (s *SubOrientedPoint) Location() float64 { return s.point.location }

// Split classifies the point against the splitter. A point is never divided;
// it lands entirely on one side, or on the splitter itself.
func (s *SubOrientedPoint) Split(splitter OrientedPoint) bsp.Split[*SubOrientedPoint] {
	switch splitter.Classify(s.point.location) {
	case bsp.SideMinus:
		return bsp.NewSplitMinus(s)
	case bsp.SidePlus:
		return bsp.NewSplitPlus(s)
	default:
		return bsp.NewSplitNeither[*SubOrientedPoint]()
	}
}

// Reverse returns the subset with its hyperplane orientation flipped.
func (s *SubOrientedPoint) Reverse() *SubOrientedPoint {
	return &SubOrientedPoint{point: s.point.Reverse()}
}

// Tree is a 1D BSP-tree-backed region: a union of intervals on the number
// line.
type Tree = bsp.Tree[float64, OrientedPoint, *SubOrientedPoint]

// Full returns a 1D region covering the whole number line.
func Full() *Tree {
	return bsp.NewTree[float64, OrientedPoint, *SubOrientedPoint](true)
}

// Empty returns a 1D region containing nothing.
func Empty() *Tree {
	return bsp.NewTree[float64, OrientedPoint, *SubOrientedPoint](false)
}
