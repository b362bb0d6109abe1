// Package threed implements three-dimensional Euclidean geometry on top of
// the generic BSP region engine: oriented planes carrying an embedded 2D
// subspace, convex plane subsets (facets), convex volumes, BSP-tree-backed
// regions and linecasting. Points and vectors are gonum spatial/r3 values.
package threed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
	"github.com/chazu/planecut/pkg/twod"
)

// Plane is the 3D hyperplane: an oriented plane splitting space into a plus
// and a minus half-space, carrying an orthonormal subspace basis used to
// embed 2D geometry on the plane. The basis is right-handed with
// e1 x e2 equal to the plane normal, so a counterclockwise loop in subspace
// coordinates winds counterclockwise when viewed from the plus side. Planes
// are immutable.
type Plane struct {
	// normal is the unit normal pointing into the plus half-space.
	normal r3.Vec
	// offset is the signed distance of the plane from the origin along the
	// normal: points p on the plane satisfy normal.p == offset.
	offset float64
	e1, e2 r3.Vec
	prec   precision.Context
}

// PlaneFromPointAndNormal returns the plane through pt with the given
// normal. The normal must be non-zero within tolerance; the subspace basis
// is chosen arbitrarily.
func PlaneFromPointAndNormal(pt, normal r3.Vec, prec precision.Context) (Plane, error) {
	n := r3.Norm(normal)
	if prec.EqZero(n) {
		return Plane{}, fmt.Errorf("threed: cannot build plane with zero normal through %v", pt)
	}
	u := r3.Scale(1/n, normal)

	// Cross with the axis least aligned with the normal for a stable basis.
	axis := r3.Vec{X: 1}
	if math.Abs(u.X) >= math.Abs(u.Y) && math.Abs(u.X) >= math.Abs(u.Z) {
		axis = r3.Vec{Y: 1}
	}
	e1 := r3.Unit(r3.Cross(axis, u))
	e2 := r3.Cross(u, e1)

	return Plane{normal: u, offset: r3.Dot(u, pt), e1: e1, e2: e2, prec: prec}, nil
}

// PlaneFromPoints returns the plane through the three points, oriented so
// that the points wind counterclockwise when viewed from the plus side. The
// points must not be collinear within tolerance.
func PlaneFromPoints(p1, p2, p3 r3.Vec, prec precision.Context) (Plane, error) {
	v12 := r3.Sub(p2, p1)
	v13 := r3.Sub(p3, p1)
	cross := r3.Cross(v12, v13)
	if prec.EqZero(r3.Norm(cross)) {
		return Plane{}, fmt.Errorf("threed: cannot build plane from collinear points (%v, %v, %v)", p1, p2, p3)
	}
	u := r3.Unit(cross)
	e1 := r3.Unit(v12)
	e2 := r3.Cross(u, e1)
	return Plane{normal: u, offset: r3.Dot(u, p1), e1: e1, e2: e2, prec: prec}, nil
}

// Normal returns the unit normal pointing into the plus half-space.
func (p Plane) Normal() r3.Vec { return p.normal }

// Basis returns the orthonormal subspace basis vectors.
func (p Plane) Basis() (e1, e2 r3.Vec) { return p.e1, p.e2 }

// Origin returns the point of the plane closest to the space origin.
func (p Plane) Origin() r3.Vec { return r3.Scale(p.offset, p.normal) }

// Precision returns the plane's precision context.
func (p Plane) Precision() precision.Context { return p.prec }

// Offset returns the signed distance from the plane to pt; positive values
// lie in the plus half-space.
func (p Plane) Offset(pt r3.Vec) float64 {
	return r3.Dot(p.normal, pt) - p.offset
}

// Classify returns the side of the plane pt lies on.
func (p Plane) Classify(pt r3.Vec) bsp.Side {
	return bsp.Side(p.prec.Sign(p.Offset(pt)))
}

// Contains reports whether pt lies on the plane within tolerance.
func (p Plane) Contains(pt r3.Vec) bool {
	return p.Classify(pt) == bsp.SideOn
}

// Project returns the orthogonal projection of pt onto the plane.
func (p Plane) Project(pt r3.Vec) r3.Vec {
	return r3.Sub(pt, r3.Scale(p.Offset(pt), p.normal))
}

// Reverse returns the plane with the same point set and opposite
// orientation. The basis vectors are swapped to keep the basis right-handed
// with respect to the reversed normal.
func (p Plane) Reverse() Plane {
	return Plane{
		normal: r3.Scale(-1, p.normal),
		offset: -p.offset,
		e1:     p.e2,
		e2:     p.e1,
		prec:   p.prec,
	}
}

// SimilarOrientation reports whether the other plane's normal points into
// the same half of space.
func (p Plane) SimilarOrientation(other Plane) bool {
	return r3.Dot(p.normal, other.normal) > 0
}

// ToSubspace returns the 2D subspace coordinates of the projection of pt
// onto the plane.
func (p Plane) ToSubspace(pt r3.Vec) r2.Vec {
	return r2.Vec{X: r3.Dot(p.e1, pt), Y: r3.Dot(p.e2, pt)}
}

// ToSpace returns the 3D point of the plane at the given subspace
// coordinates.
func (p Plane) ToSpace(v r2.Vec) r3.Vec {
	out := r3.Scale(p.offset, p.normal)
	out = r3.Add(out, r3.Scale(v.X, p.e1))
	out = r3.Add(out, r3.Scale(v.Y, p.e2))
	return out
}

// Parallel reports whether the other plane has a parallel normal within
// tolerance.
func (p Plane) Parallel(other Plane) bool {
	return p.prec.EqZero(r3.Norm(r3.Cross(p.normal, other.normal)))
}

// Eq reports whether the other plane has the same point set and the same
// orientation within tolerance. The subspace bases may differ.
func (p Plane) Eq(other Plane) bool {
	return p.Parallel(other) && p.SimilarOrientation(other) && p.prec.Eq(p.offset, other.offset)
}

// SubspaceIntersection returns the trace of the other plane on this plane
// as a 2D line in this plane's subspace, oriented so that the line's minus
// side maps into the other plane's minus half-space. The second return is
// false for parallel planes.
func (p Plane) SubspaceIntersection(other Plane) (twod.Line, bool) {
	// The trace satisfies (other.normal . e1) x + (other.normal . e2) y =
	// other.offset - other.normal . origin in subspace coordinates.
	n2d := r2.Vec{X: r3.Dot(other.normal, p.e1), Y: r3.Dot(other.normal, p.e2)}
	norm := r2.Norm(n2d)
	if p.prec.EqZero(norm) {
		return twod.Line{}, false
	}
	unit := r2.Scale(1/norm, n2d)
	off := (other.offset - r3.Dot(other.normal, p.Origin())) / norm

	origin := r2.Scale(off, unit)
	dir := r2.Vec{X: -unit.Y, Y: unit.X}
	line, err := twod.LineFromPointAndDirection(origin, dir, p.prec)
	if err != nil {
		// The direction is a unit vector.
		panic(fmt.Sprintf("threed: subspace trace: %v", err))
	}
	return line, true
}

// Span returns the subset covering the entire plane.
func (p Plane) Span() *PlaneSubset {
	return &PlaneSubset{plane: p, area: twod.FullArea()}
}

// String returns a readable description of the plane.
func (p Plane) String() string {
	return fmt.Sprintf("Plane{origin: %v, normal: %v}", p.Origin(), p.normal)
}

// Compile-time contract checks.
var (
	_ bsp.Hyperplane[r3.Vec, Plane, *PlaneSubset]       = Plane{}
	_ bsp.HyperplaneSubset[r3.Vec, Plane, *PlaneSubset] = (*PlaneSubset)(nil)
)
