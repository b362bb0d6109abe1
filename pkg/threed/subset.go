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

// PlaneSubset is a convex subset of a plane: a facet, represented as a
// convex area in the plane's embedded subspace. Subsets are immutable.
type PlaneSubset struct {
	plane Plane
	area  *twod.ConvexArea
}

// FacetFromVertexLoop returns the facet bounded by the given vertex loop.
// At least three non-collinear vertices are required; the loop must be
// planar and convex, winding counterclockwise when viewed from the plus
// side of the resulting plane.
func FacetFromVertexLoop(vertices []r3.Vec, prec precision.Context) (*PlaneSubset, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("threed: facet requires at least 3 vertices, got %d", len(vertices))
	}
	plane, err := PlaneFromPoints(vertices[0], vertices[1], vertices[2], prec)
	if err != nil {
		return nil, err
	}
	sub := make([]r2.Vec, 0, len(vertices))
	for i, v := range vertices {
		if !plane.Contains(v) {
			return nil, fmt.Errorf("threed: facet vertex %d (%v) is off the plane of the first three", i, v)
		}
		sub = append(sub, plane.ToSubspace(v))
	}
	area, err := twod.AreaFromVertexLoop(sub, prec)
	if err != nil {
		return nil, fmt.Errorf("threed: facet vertex loop: %w", err)
	}
	return &PlaneSubset{plane: plane, area: area}, nil
}

// SubsetFromArea returns the subset of the plane covering the given
// subspace area.
func SubsetFromArea(plane Plane, area *twod.ConvexArea) *PlaneSubset {
	return &PlaneSubset{plane: plane, area: area}
}

// Plane returns the plane the subset lies on.
func (s *PlaneSubset) Plane() Plane { return s.plane }

// Hyperplane returns the plane the subset lies on.
func (s *PlaneSubset) Hyperplane() Plane { return s.plane }

// Area returns the subset's region in the plane's subspace.
func (s *PlaneSubset) Area() *twod.ConvexArea { return s.area }

// IsFull reports whether the subset covers the entire plane.
func (s *PlaneSubset) IsFull() bool { return s.area.IsFull() }

// IsFinite reports whether the subset is a bounded facet.
func (s *PlaneSubset) IsFinite() bool { return s.area.IsFinite() }

// Size returns the surface area of the subset, possibly infinite.
func (s *PlaneSubset) Size() float64 { return s.area.Size() }

// Centroid returns the centroid of a finite facet. The second return is
// false for unbounded subsets.
func (s *PlaneSubset) Centroid() (r3.Vec, bool) {
	c, ok := s.area.Centroid()
	if !ok {
		return r3.Vec{}, false
	}
	return s.plane.ToSpace(c), true
}

// Vertices returns the vertex loop of a finite facet in counterclockwise
// order viewed from the plus side of the plane.
func (s *PlaneSubset) Vertices() []r3.Vec {
	sub := s.area.Vertices()
	if sub == nil {
		return nil
	}
	out := make([]r3.Vec, 0, len(sub))
	for _, v := range sub {
		out = append(out, s.plane.ToSpace(v))
	}
	return out
}

// Contains reports whether pt lies on the subset within tolerance.
func (s *PlaneSubset) Contains(pt r3.Vec) bool {
	return s.plane.Contains(pt) && s.area.Contains(s.plane.ToSubspace(pt))
}

// ClosestPoint returns the point of the subset closest to pt.
func (s *PlaneSubset) ClosestPoint(pt r3.Vec) r3.Vec {
	sub := s.plane.ToSubspace(pt)
	if s.area.Classify(sub) != bsp.Outside {
		return s.plane.ToSpace(sub)
	}
	proj, ok := s.area.Project(sub)
	if !ok {
		return s.plane.ToSpace(sub)
	}
	return s.plane.ToSpace(proj)
}

// Reverse returns the same subset with the plane orientation flipped. The
// reversed plane swaps its basis vectors, so subspace coordinates swap as
// well.
func (s *PlaneSubset) Reverse() *PlaneSubset {
	swap := twod.NewAffineTransform(
		0, 1, 0,
		1, 0, 0,
	)
	return &PlaneSubset{plane: s.plane.Reverse(), area: s.area.Transform(swap)}
}

// Split cuts the subset by the splitter plane. A subset coplanar with the
// splitter lies on neither side.
func (s *PlaneSubset) Split(splitter Plane) bsp.Split[*PlaneSubset] {
	trace, ok := s.plane.SubspaceIntersection(splitter)
	if !ok {
		// Parallel planes: the whole subset lies on one side, or on the
		// splitter itself.
		switch splitter.Classify(s.plane.Origin()) {
		case bsp.SideMinus:
			return bsp.NewSplitMinus(s)
		case bsp.SidePlus:
			return bsp.NewSplitPlus(s)
		default:
			return bsp.NewSplitNeither[*PlaneSubset]()
		}
	}

	sp := s.area.Split(trace)
	switch sp.Loc {
	case bsp.SplitNeither:
		return bsp.NewSplitNeither[*PlaneSubset]()
	case bsp.SplitMinus:
		return bsp.NewSplitMinus(s)
	case bsp.SplitPlus:
		return bsp.NewSplitPlus(s)
	default:
		return bsp.NewSplitBoth(
			&PlaneSubset{plane: s.plane, area: sp.Minus},
			&PlaneSubset{plane: s.plane, area: sp.Plus},
		)
	}
}

// Transform returns the subset mapped through the affine transform. The
// subset's subspace area is carried through the induced 2D affine map
// between the old and new subspace coordinates.
func (s *PlaneSubset) Transform(at AffineTransform3) *PlaneSubset {
	prec := s.plane.prec

	q0 := at.Apply(s.plane.ToSpace(r2.Vec{}))
	qx := at.Apply(s.plane.ToSpace(r2.Vec{X: 1}))
	qy := at.Apply(s.plane.ToSpace(r2.Vec{Y: 1}))

	// The plane orientation follows the winding of the mapped basis; a
	// reflection flips it, which callers compensate for the same way as in
	// 2D, by swapping tree children or reversing boundaries.
	plane, err := PlaneFromPoints(q0, qx, qy, prec)
	if err != nil {
		panic(fmt.Sprintf("threed: transform collapses plane: %v", err))
	}

	o := plane.ToSubspace(q0)
	cx := r2.Sub(plane.ToSubspace(qx), o)
	cy := r2.Sub(plane.ToSubspace(qy), o)
	induced := twod.NewAffineTransform(
		cx.X, cy.X, o.X,
		cx.Y, cy.Y, o.Y,
	)
	return &PlaneSubset{plane: plane, area: s.area.Transform(induced)}
}

// String returns a readable description of the subset.
func (s *PlaneSubset) String() string {
	if s.IsFull() {
		return fmt.Sprintf("Span{%s}", s.plane)
	}
	if size := s.Size(); !math.IsInf(size, 1) {
		return fmt.Sprintf("Facet{%s, area: %v}", s.plane, size)
	}
	return fmt.Sprintf("UnboundedFacet{%s}", s.plane)
}
