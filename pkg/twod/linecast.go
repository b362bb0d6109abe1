package twod

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/oned"
)

// LinecastPoint is a single intersection of a cast line subset with a
// region boundary.
type LinecastPoint struct {
	// Point is the intersection point.
	Point r2.Vec
	// Normal is the region boundary normal at the point, pointing away
	// from the region interior.
	Normal r2.Vec
	// Abscissa is the position of the point along the cast subset's line,
	// ordering hits from near to far.
	Abscissa float64
}

// Linecast intersects the query subset with the region boundary and
// returns the hits ordered near to far along the query direction. The tree
// is traversed near child first, so hits stream out already ordered.
// Coincident hits at a shared boundary vertex are reported once. Boundary
// pieces collinear with the query are not reported.
func (t *Tree) Linecast(query *LineSubset) []LinecastPoint {
	var hits []LinecastPoint
	prec := query.Line().Precision()
	linecastNode(t.engine.Root(), query, func(h LinecastPoint) bool {
		if n := len(hits); n > 0 && pointsEq(hits[n-1].Point, h.Point, prec) {
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
func (t *Tree) LinecastFirst(query *LineSubset) (LinecastPoint, bool) {
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
func linecastNode(n *bsp.Node[r2.Vec, Line, *LineSubset], query *LineSubset, visit func(LinecastPoint) bool) bool {
	if n.IsLeaf() {
		return true
	}
	cut := n.Cut().Hyperplane()
	sp := query.Split(cut)

	switch sp.Loc {
	case bsp.SplitNeither:
		// Collinear with the cut: hits from the two subtrees interleave
		// along the query, so both streams are buffered and merged.
		return visitBothOrdered(n, query, visit)

	case bsp.SplitMinus, bsp.SplitPlus:
		child := n.Minus()
		if sp.Loc == bsp.SplitPlus {
			child = n.Plus()
		}
		crossPt, ok := query.Line().Intersection(cut)
		if !ok {
			return linecastNode(child, query, visit)
		}
		// The query lies on one side but may still touch the cut at an
		// endpoint; the touch orders before the subtree's hits when it is
		// at the near end of the interval.
		crossing := query.Line().Abscissa(crossPt)
		if nearEndFirst(query.Interval(), crossing) {
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
		nearChild, nearQuery := n.Minus(), sp.Minus
		farChild, farQuery := n.Plus(), sp.Plus
		if r2.Dot(cut.Normal(), query.Line().Direction()) < 0 {
			nearChild, farChild = farChild, nearChild
			nearQuery, farQuery = farQuery, nearQuery
		}
		if !linecastNode(nearChild, nearQuery, visit) {
			return false
		}
		if !visitCutHits(n, query, visit) {
			return false
		}
		return linecastNode(farChild, farQuery, visit)
	}
}

// visitCutHits hands the visitor the intersections of the query with the
// boundary pieces of the node's cut.
func visitCutHits(n *bsp.Node[r2.Vec, Line, *LineSubset], query *LineSubset, visit func(LinecastPoint) bool) bool {
	cut := n.Cut().Hyperplane()
	cb := bsp.NodeCutBoundary(n)
	for _, piece := range cb.InsideFacing {
		if !visitHit(piece, cut.Normal(), query, visit) {
			return false
		}
	}
	for _, piece := range cb.OutsideFacing {
		if !visitHit(piece, r2.Scale(-1, cut.Normal()), query, visit) {
			return false
		}
	}
	return true
}

// visitHit hands the visitor the intersection of the query with a boundary
// piece when the crossing point lies on both subsets.
func visitHit(piece *LineSubset, outward r2.Vec, query *LineSubset, visit func(LinecastPoint) bool) bool {
	pt, ok := query.Line().Intersection(piece.Line())
	if !ok {
		return true
	}
	if !query.Contains(pt) || !piece.Contains(pt) {
		return true
	}
	return visit(LinecastPoint{
		Point:    pt,
		Normal:   outward,
		Abscissa: query.Line().Abscissa(pt),
	})
}

// visitBothOrdered collects the hits of both subtrees, restores the global
// abscissa order lost by descending two unordered children, and replays the
// merged stream to the visitor.
func visitBothOrdered(n *bsp.Node[r2.Vec, Line, *LineSubset], query *LineSubset, visit func(LinecastPoint) bool) bool {
	var local []LinecastPoint
	collect := func(h LinecastPoint) bool {
		local = append(local, h)
		return true
	}
	linecastNode(n.Minus(), query, collect)
	linecastNode(n.Plus(), query, collect)

	sort.Slice(local, func(i, j int) bool {
		if local[i].Abscissa != local[j].Abscissa {
			return local[i].Abscissa < local[j].Abscissa
		}
		return lexLess(local[i].Normal, local[j].Normal)
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
