package threed

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/oned"
	"github.com/chazu/planecut/pkg/precision"
)

// Line3 is a directed line in space: an origin point and a unit direction.
// It is a query object for linecasting, not a region hyperplane.
type Line3 struct {
	origin    r3.Vec
	direction r3.Vec
	prec      precision.Context
}

// Line3FromPoints returns the line through p1 and p2, directed from p1
// toward p2. The points must be distinct within tolerance.
func Line3FromPoints(p1, p2 r3.Vec, prec precision.Context) (Line3, error) {
	d := r3.Sub(p2, p1)
	if prec.EqZero(r3.Norm(d)) {
		return Line3{}, fmt.Errorf("threed: cannot build line from equal points (%v, %v)", p1, p2)
	}
	return Line3{origin: p1, direction: r3.Unit(d), prec: prec}, nil
}

// Origin returns the line's origin point, at abscissa zero.
func (l Line3) Origin() r3.Vec { return l.origin }

// Direction returns the unit direction of the line.
func (l Line3) Direction() r3.Vec { return l.direction }

// PointAt returns the point of the line at the given abscissa.
func (l Line3) PointAt(abscissa float64) r3.Vec {
	return r3.Add(l.origin, r3.Scale(abscissa, l.direction))
}

// Abscissa returns the 1D coordinate along the line of the projection of
// pt.
func (l Line3) Abscissa(pt r3.Vec) float64 {
	return r3.Dot(l.direction, r3.Sub(pt, l.origin))
}

// Span returns the subset covering the entire line.
func (l Line3) Span() *Line3Subset {
	return &Line3Subset{line: l, itv: oned.FullInterval(l.prec)}
}

// Segment returns the finite subset of the line between the two abscissae.
func (l Line3) Segment(from, to float64) (*Line3Subset, error) {
	itv, err := oned.NewInterval(from, to, l.prec)
	if err != nil {
		return nil, err
	}
	return &Line3Subset{line: l, itv: itv}, nil
}

// Ray returns the subset of the line from the given abscissa toward the
// line's direction.
func (l Line3) Ray(from float64) (*Line3Subset, error) {
	itv, err := oned.MinAbove(from, l.prec)
	if err != nil {
		return nil, err
	}
	return &Line3Subset{line: l, itv: itv}, nil
}

// Line3Subset is a convex subset of a 3D line: a segment, a ray, or the
// whole line, represented as an interval of abscissae.
type Line3Subset struct {
	line Line3
	itv  oned.Interval
}

// Line returns the line the subset lies on.
func (s *Line3Subset) Line() Line3 { return s.line }

// Interval returns the abscissa interval of the subset.
func (s *Line3Subset) Interval() oned.Interval { return s.itv }

// Contains reports whether the abscissa lies within the subset.
func (s *Line3Subset) Contains(abscissa float64) bool {
	return s.itv.Contains(abscissa)
}

// LinecastPoint is a single intersection of a cast line subset with a
// region boundary.
type LinecastPoint struct {
	// Point is the intersection point.
	Point r3.Vec
	// Normal is the region boundary normal at the point, pointing away
	// from the region interior.
	Normal r3.Vec
	// Abscissa is the position of the point along the cast line, ordering
	// hits from near to far.
	Abscissa float64
}

// Linecast intersects the query subset with the region boundary and
// returns the hits ordered near to far along the query direction. The tree
// is traversed near child first, so hits stream out already ordered.
// Coincident hits at a shared boundary edge are reported once. Boundary
// facets parallel to the query are not reported.
func (t *Tree) Linecast(query *Line3Subset) []LinecastPoint {
	var hits []LinecastPoint
	prec := query.line.prec
	linecastNode(t.engine.Root(), query, func(h LinecastPoint) bool {
		if n := len(hits); n > 0 && prec.EqZero(r3.Norm(r3.Sub(hits[n-1].Point, h.Point))) {
			return true
		}
		hits = append(hits, h)
		return true
	})
	return hits
}

// LinecastFirst returns the nearest boundary hit of the query subset,
// stopping the traversal as soon as it is found. The second return is false
// when the query misses the boundary entirely.
func (t *Tree) LinecastFirst(query *Line3Subset) (LinecastPoint, bool) {
	var first LinecastPoint
	found := false
	linecastNode(t.engine.Root(), query, func(h LinecastPoint) bool {
		first, found = h, true
		return false
	})
	return first, found
}

// linecastNode walks the subtree visiting the child nearer along the query
// direction first, so hits reach the visitor in increasing abscissa order.
// It returns false when the visitor stopped the cast.
func linecastNode(n *bsp.Node[r3.Vec, Plane, *PlaneSubset], query *Line3Subset, visit func(LinecastPoint) bool) bool {
	if n.IsLeaf() {
		return true
	}
	cut := n.Cut().Hyperplane()
	prec := query.line.prec

	denom := r3.Dot(cut.Normal(), query.line.direction)
	if prec.EqZero(denom) {
		// Parallel to the cut plane; the whole query lies on one side, or
		// on the plane itself. Facets on the plane are parallel to the
		// query and never reported, so only the children produce hits.
		switch cut.Classify(query.line.origin) {
		case bsp.SideMinus:
			return linecastNode(n.Minus(), query, visit)
		case bsp.SidePlus:
			return linecastNode(n.Plus(), query, visit)
		default:
			return visitBothOrdered(n, query, visit)
		}
	}

	crossing := -cut.Offset(query.line.origin) / denom
	op, err := oned.NewOrientedPoint(crossing, denom > 0, prec)
	if err != nil {
		panic(fmt.Sprintf("threed: linecast crossing: %v", err))
	}
	sp := query.itv.Split(op)
	switch sp.Loc {
	case bsp.SplitNeither:
		// Degenerate query at the crossing point; both subtrees and the
		// cut itself may hold boundary there.
		return visitBothOrdered(n, query, visit)

	case bsp.SplitMinus, bsp.SplitPlus:
		child := n.Minus()
		if sp.Loc == bsp.SplitPlus {
			child = n.Plus()
		}
		// The query lies on one side but may still touch the cut plane at
		// an endpoint; the touch orders before the subtree's hits when it
		// is at the near end of the interval.
		if nearEndFirst(query.itv, crossing) {
			if !visitCutHits(n, query, visit) {
				return false
			}
			return linecastNode(child, query, visit)
		}
		if !linecastNode(child, query, visit) {
			return false
		}
		return visitCutHits(n, query, visit)

	default: // bsp.SplitBoth
		nearChild, nearItv := n.Minus(), sp.Minus
		farChild, farItv := n.Plus(), sp.Plus
		if denom < 0 {
			nearChild, farChild = farChild, nearChild
			nearItv, farItv = farItv, nearItv
		}
		if !linecastNode(nearChild, &Line3Subset{line: query.line, itv: nearItv}, visit) {
			return false
		}
		if !visitCutHits(n, query, visit) {
			return false
		}
		return linecastNode(farChild, &Line3Subset{line: query.line, itv: farItv}, visit)
	}
}

// visitCutHits hands the visitor the intersections of the query with the
// boundary facets of the node's cut.
func visitCutHits(n *bsp.Node[r3.Vec, Plane, *PlaneSubset], query *Line3Subset, visit func(LinecastPoint) bool) bool {
	cut := n.Cut().Hyperplane()
	cb := bsp.NodeCutBoundary(n)
	for _, piece := range cb.InsideFacing {
		if !visitHit(piece, cut.Normal(), query, visit) {
			return false
		}
	}
	for _, piece := range cb.OutsideFacing {
		if !visitHit(piece, r3.Scale(-1, cut.Normal()), query, visit) {
			return false
		}
	}
	return true
}

// visitHit hands the visitor the intersection of the query with a boundary
// facet when the crossing point lies on both.
func visitHit(piece *PlaneSubset, outward r3.Vec, query *Line3Subset, visit func(LinecastPoint) bool) bool {
	u := piece.plane.normal
	denom := r3.Dot(u, query.line.direction)
	if query.line.prec.EqZero(denom) {
		return true
	}
	abscissa := -piece.plane.Offset(query.line.origin) / denom
	if !query.Contains(abscissa) {
		return true
	}
	pt := query.line.PointAt(abscissa)
	if !piece.Contains(pt) {
		return true
	}
	return visit(LinecastPoint{Point: pt, Normal: outward, Abscissa: abscissa})
}

// visitBothOrdered collects the hits of the cut and both subtrees, restores
// the global abscissa order lost by descending two unordered children, and
// replays the merged stream to the visitor.
func visitBothOrdered(n *bsp.Node[r3.Vec, Plane, *PlaneSubset], query *Line3Subset, visit func(LinecastPoint) bool) bool {
	var local []LinecastPoint
	collect := func(h LinecastPoint) bool {
		local = append(local, h)
		return true
	}
	visitCutHits(n, query, collect)
	linecastNode(n.Minus(), query, collect)
	linecastNode(n.Plus(), query, collect)

	sort.Slice(local, func(i, j int) bool {
		if local[i].Abscissa != local[j].Abscissa {
			return local[i].Abscissa < local[j].Abscissa
		}
		return lexLess3(local[i].Normal, local[j].Normal)
	})
	for _, h := range local {
		if !visit(h) {
			return false
		}
	}
	return true
}

// nearEndFirst reports whether an abscissa outside the interval sits before
// the interval rather than after it.
func nearEndFirst(itv oned.Interval, abscissa float64) bool {
	if !itv.HasMin() {
		return false
	}
	if !itv.HasMax() {
		return true
	}
	return abscissa-itv.Min() < itv.Max()-abscissa
}

