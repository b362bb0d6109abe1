// Package twod implements two-dimensional Euclidean geometry on top of the
// generic BSP region engine: oriented lines, line subsets (segments, rays
// and full spans), convex areas, BSP-tree-backed regions, boundary path
// assembly and linecasting. Points and vectors are gonum spatial/r2 values.
package twod

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

// Line is the 2D hyperplane: an oriented line splitting the plane into a
// plus and a minus half-plane. The minus side lies to the left of the line
// direction, so a region bounded counterclockwise keeps its interior on the
// minus side of every boundary. Lines are immutable.
type Line struct {
	// normal is the unit normal pointing into the plus half-plane; it is
	// the line direction rotated a quarter turn clockwise.
	normal r2.Vec
	// offset is the signed distance of the line from the origin along the
	// normal: points p on the line satisfy normal·p == offset.
	offset float64
	prec   precision.Context
}

// LineFromPoints returns the oriented line through p1 and p2, directed from
// p1 toward p2. The points must be distinct within tolerance.
func LineFromPoints(p1, p2 r2.Vec, prec precision.Context) (Line, error) {
	d := r2.Sub(p2, p1)
	if prec.EqZero(r2.Norm(d)) {
		return Line{}, fmt.Errorf("twod: cannot build line from equal points (%v, %v)", p1, p2)
	}
	return LineFromPointAndDirection(p1, d, prec)
}

// LineFromPointAndDirection returns the oriented line through pt along dir.
// The direction must be non-zero within tolerance.
func LineFromPointAndDirection(pt, dir r2.Vec, prec precision.Context) (Line, error) {
	norm := r2.Norm(dir)
	if prec.EqZero(norm) {
		return Line{}, fmt.Errorf("twod: cannot build line with zero direction through %v", pt)
	}
	u := r2.Scale(1/norm, dir)
	n := r2.Vec{X: u.Y, Y: -u.X}
	return Line{normal: n, offset: r2.Dot(n, pt), prec: prec}, nil
}

// Direction returns the unit direction of the line.
func (l Line) Direction() r2.Vec {
	return r2.Vec{X: -l.normal.Y, Y: l.normal.X}
}

// Normal returns the unit normal pointing into the plus half-plane.
func (l Line) Normal() r2.Vec { return l.normal }

// Precision returns the line's precision context.
func (l Line) Precision() precision.Context { return l.prec }

// Offset returns the signed distance from the line to pt; positive values
// lie in the plus half-plane.
func (l Line) Offset(pt r2.Vec) float64 {
	return r2.Dot(l.normal, pt) - l.offset
}

// Classify returns the side of the line pt lies on.
func (l Line) Classify(pt r2.Vec) bsp.Side {
	return bsp.Side(l.prec.Sign(l.Offset(pt)))
}

// Contains reports whether pt lies on the line within tolerance.
func (l Line) Contains(pt r2.Vec) bool {
	return l.Classify(pt) == bsp.SideOn
}

// Project returns the orthogonal projection of pt onto the line.
func (l Line) Project(pt r2.Vec) r2.Vec {
	return r2.Sub(pt, r2.Scale(l.Offset(pt), l.normal))
}

// Reverse returns the line with the same point set and opposite
// orientation.
func (l Line) Reverse() Line {
	return Line{normal: r2.Scale(-1, l.normal), offset: -l.offset, prec: l.prec}
}

// SimilarOrientation reports whether the other line points into the same
// half of the plane.
func (l Line) SimilarOrientation(other Line) bool {
	return r2.Dot(l.normal, other.normal) > 0
}

// Abscissa returns the 1D coordinate of pt along the line direction.
func (l Line) Abscissa(pt r2.Vec) float64 {
	return r2.Dot(l.Direction(), pt)
}

// PointAt returns the point of the line at the given abscissa.
func (l Line) PointAt(abscissa float64) r2.Vec {
	return r2.Add(r2.Scale(abscissa, l.Direction()), r2.Scale(l.offset, l.normal))
}

// Parallel reports whether the other line has the same or opposite
// direction within tolerance.
func (l Line) Parallel(other Line) bool {
	return l.prec.EqZero(crossVec(l.Direction(), other.Direction()))
}

// Eq reports whether the other line has the same point set and the same
// orientation within tolerance.
func (l Line) Eq(other Line) bool {
	return l.Parallel(other) && l.SimilarOrientation(other) && l.prec.Eq(l.offset, other.offset)
}

// Intersection returns the point common to both lines. The second return
// is false for parallel lines.
func (l Line) Intersection(other Line) (r2.Vec, bool) {
	det := crossVec(l.normal, other.normal)
	if l.prec.EqZero(det) {
		return r2.Vec{}, false
	}
	x := (l.offset*other.normal.Y - l.normal.Y*other.offset) / det
	y := (l.normal.X*other.offset - l.offset*other.normal.X) / det
	return r2.Vec{X: x, Y: y}, true
}

// Span returns the subset covering the entire line.
func (l Line) Span() *LineSubset {
	return &LineSubset{line: l, itv: fullItv(l.prec)}
}

// String returns a readable description of the line.
func (l Line) String() string {
	return fmt.Sprintf("Line{origin: %v, direction: %v}", l.PointAt(0), l.Direction())
}

// crossVec returns the 2D cross product of a and b.
func crossVec(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// lexLess orders points by X, then Y. Used as the deterministic tie-break
// for equidistant projection candidates.
func lexLess(a, b r2.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// pointsEq reports whether two points coincide within tolerance.
func pointsEq(a, b r2.Vec, prec precision.Context) bool {
	return prec.EqZero(r2.Norm(r2.Sub(a, b)))
}

// Compile-time contract checks.
var (
	_ bsp.Hyperplane[r2.Vec, Line, *LineSubset]       = Line{}
	_ bsp.HyperplaneSubset[r2.Vec, Line, *LineSubset] = (*LineSubset)(nil)
)
