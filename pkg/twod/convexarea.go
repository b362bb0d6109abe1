package twod

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

// ConvexArea is a convex region of the plane represented directly as an
// unordered list of boundary line subsets, each oriented with its minus
// side facing the region interior. An empty boundary list represents the
// entire plane; an empty region is not representable and is rejected at
// construction. Convex areas are immutable.
type ConvexArea struct {
	boundaries []*LineSubset
}

// FullArea returns the convex area covering the entire plane.
func FullArea() *ConvexArea {
	return &ConvexArea{}
}

// AreaFromBounds builds the convex area equal to the intersection of the
// minus half-planes of the given bounding lines. Each bound starts as a
// full span and is trimmed against every other bound. Duplicate bounds with
// the same orientation keep a single representative; coincident bounds with
// opposite orientations cannot enclose any area and are an error, as is any
// set of bounds whose trimming removes every boundary.
func AreaFromBounds(bounds []Line) (*ConvexArea, error) {
	if len(bounds) == 0 {
		return FullArea(), nil
	}

	var kept []*LineSubset
	for i, bound := range bounds {
		sub := bound.Span()
		keep := true

		for j, other := range bounds {
			if i == j {
				continue
			}
			sp := sub.Split(other)
			switch sp.Loc {
			case bsp.SplitNeither:
				// Coincident bounding lines.
				if !bound.SimilarOrientation(other) {
					return nil, fmt.Errorf(
						"twod: bounds %d (%s) and %d (%s) are coincident with opposite orientations and cannot enclose a convex area",
						i, bound, j, other)
				}
				if j < i {
					// Duplicate; the earlier bound is the representative.
					keep = false
				}
			case bsp.SplitMinus:
				sub = sp.Minus
			case bsp.SplitPlus:
				// Entirely outside this bound's half-plane.
				keep = false
			case bsp.SplitBoth:
				sub = sp.Minus
			}
			if !keep {
				break
			}
		}
		if keep {
			kept = append(kept, sub)
		}
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("twod: bounds do not enclose a convex area (first bound: %s)", bounds[0])
	}
	return &ConvexArea{boundaries: kept}, nil
}

// AreaFromVertexLoop builds the convex area bounded counterclockwise by
// the given vertex loop. At least three vertices are required, consecutive
// vertices must be distinct within tolerance, and the loop must wind
// counterclockwise so each edge keeps the interior on its minus side.
func AreaFromVertexLoop(vertices []r2.Vec, prec precision.Context) (*ConvexArea, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("twod: convex area requires at least 3 vertices, got %d", len(vertices))
	}
	bounds := make([]Line, 0, len(vertices))
	for i, v := range vertices {
		next := vertices[(i+1)%len(vertices)]
		line, err := LineFromPoints(v, next, prec)
		if err != nil {
			return nil, fmt.Errorf("twod: vertex loop edge %d: %w", i, err)
		}
		bounds = append(bounds, line)
	}
	return AreaFromBounds(bounds)
}

// Boundaries returns the boundary subsets of the area. The returned slice
// must not be modified.
func (a *ConvexArea) Boundaries() []*LineSubset { return a.boundaries }

// IsFull reports whether the area covers the entire plane.
func (a *ConvexArea) IsFull() bool { return len(a.boundaries) == 0 }

// IsFinite reports whether every boundary of the area is a finite segment.
func (a *ConvexArea) IsFinite() bool {
	if a.IsFull() {
		return false
	}
	for _, b := range a.boundaries {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

// Classify locates a point relative to the area.
func (a *ConvexArea) Classify(pt r2.Vec) bsp.Location {
	onBoundary := false
	for _, b := range a.boundaries {
		switch b.Hyperplane().Classify(pt) {
		case bsp.SidePlus:
			return bsp.Outside
		case bsp.SideOn:
			onBoundary = true
		}
	}
	if onBoundary {
		return bsp.Boundary
	}
	return bsp.Inside
}

// Contains reports whether the point lies inside or on the boundary.
func (a *ConvexArea) Contains(pt r2.Vec) bool {
	return a.Classify(pt) != bsp.Outside
}

// Size returns the area, which is infinite when any boundary is unbounded
// or the area is the full plane.
func (a *ConvexArea) Size() float64 {
	if !a.IsFinite() {
		return math.Inf(1)
	}
	size, _, _ := shoelace(a.boundaries)
	return size
}

// Centroid returns the centroid of a finite area. The second return is
// false for infinite or degenerate areas.
func (a *ConvexArea) Centroid() (r2.Vec, bool) {
	if !a.IsFinite() {
		return r2.Vec{}, false
	}
	size, centroid, ok := shoelace(a.boundaries)
	if !ok || size <= 0 {
		return r2.Vec{}, false
	}
	return centroid, true
}

// shoelace accumulates the signed area and first moments of a set of
// finite, consistently oriented boundary segments using Green's theorem.
// The segment order is irrelevant because each segment contributes
// independently.
func shoelace(boundaries []*LineSubset) (float64, r2.Vec, bool) {
	var doubleArea, cx, cy float64
	for _, b := range boundaries {
		start, ok1 := b.StartPoint()
		end, ok2 := b.EndPoint()
		if !ok1 || !ok2 {
			return math.Inf(1), r2.Vec{}, false
		}
		cross := crossVec(start, end)
		doubleArea += cross
		cx += (start.X + end.X) * cross
		cy += (start.Y + end.Y) * cross
	}
	if doubleArea == 0 {
		return 0, r2.Vec{}, false
	}
	area := 0.5 * doubleArea
	return area, r2.Vec{X: cx / (6 * area), Y: cy / (6 * area)}, true
}

// Split cuts the area by the splitter line, producing the convex pieces on
// each side. An area whose boundary is coincident with the splitter lies
// entirely on the side its own orientation dictates.
func (a *ConvexArea) Split(splitter Line) bsp.Split[*ConvexArea] {
	if a.IsFull() {
		return bsp.NewSplitBoth(
			&ConvexArea{boundaries: []*LineSubset{splitter.Span()}},
			&ConvexArea{boundaries: []*LineSubset{splitter.Reverse().Span()}},
		)
	}

	var minusList, plusList []*LineSubset
	for _, b := range a.boundaries {
		sp := b.Split(splitter)
		switch sp.Loc {
		case bsp.SplitNeither:
			// A boundary lies exactly on the splitter: the entire area is
			// on one side, determined by relative orientation.
			if b.Hyperplane().SimilarOrientation(splitter) {
				return bsp.NewSplitMinus(a)
			}
			return bsp.NewSplitPlus(a)
		case bsp.SplitMinus:
			minusList = append(minusList, b)
		case bsp.SplitPlus:
			plusList = append(plusList, b)
		case bsp.SplitBoth:
			minusList = append(minusList, sp.Minus)
			plusList = append(plusList, sp.Plus)
		}
	}

	// The splitter crosses the interior exactly when a positive-length
	// portion of it lies inside the area. The boundary side lists cannot
	// decide this: a splitter parallel to every bound of an unbounded area
	// leaves all pieces on one side while still cutting the interior.
	trimmed, ok := a.Trim(splitter.Span())
	if !ok {
		return a.splitSide(splitter)
	}

	minusArea := &ConvexArea{boundaries: append(minusList, trimmed)}
	plusArea := &ConvexArea{boundaries: append(plusList, trimmed.Reverse())}
	return bsp.NewSplitBoth(minusArea, plusArea)
}

// splitSide resolves a split that leaves the area entirely on one side of
// the splitter: a single boundary piece determines the side, with relative
// orientation deciding the collinear case.
func (a *ConvexArea) splitSide(splitter Line) bsp.Split[*ConvexArea] {
	sp := a.boundaries[0].Split(splitter)
	switch sp.Loc {
	case bsp.SplitPlus:
		return bsp.NewSplitPlus(a)
	case bsp.SplitNeither:
		if !a.boundaries[0].Hyperplane().SimilarOrientation(splitter) {
			return bsp.NewSplitPlus(a)
		}
	}
	return bsp.NewSplitMinus(a)
}

// Trim cuts the subset down to the portion lying inside the area. The
// second return is false when nothing remains. Subsets collinear with a
// boundary are trimmed by the remaining bounds only.
func (a *ConvexArea) Trim(sub *LineSubset) (*LineSubset, bool) {
	cur := sub
	for _, b := range a.boundaries {
		sp := cur.Split(b.Hyperplane())
		switch sp.Loc {
		case bsp.SplitNeither:
			// Collinear with this boundary; no trimming possible here.
		case bsp.SplitMinus:
			cur = sp.Minus
		case bsp.SplitPlus:
			return nil, false
		case bsp.SplitBoth:
			cur = sp.Minus
		}
	}
	if cur.IsFinite() && cur.Line().Precision().EqZero(cur.Size()) {
		return nil, false
	}
	return cur, true
}

// Project returns the point of the area's boundary closest to pt, breaking
// distance ties lexicographically by coordinates. The second return is
// false for the full plane, which has no boundary.
func (a *ConvexArea) Project(pt r2.Vec) (r2.Vec, bool) {
	if a.IsFull() {
		return r2.Vec{}, false
	}
	prec := a.boundaries[0].Line().Precision()
	var best r2.Vec
	bestDist := math.Inf(1)
	for _, b := range a.boundaries {
		candidate := b.ClosestPoint(pt)
		dist := r2.Norm(r2.Sub(candidate, pt))
		if dist < bestDist && !prec.Eq(dist, bestDist) {
			best, bestDist = candidate, dist
		} else if prec.Eq(dist, bestDist) && lexLess(candidate, best) {
			best = candidate
		}
	}
	return best, true
}

// Vertices returns the vertex loop of a finite area in counterclockwise
// order, starting from the boundary with the smallest direction angle.
func (a *ConvexArea) Vertices() []r2.Vec {
	if !a.IsFinite() {
		return nil
	}
	ordered := orderedBoundaries(a.boundaries)
	verts := make([]r2.Vec, 0, len(ordered))
	for _, b := range ordered {
		start, _ := b.StartPoint()
		verts = append(verts, start)
	}
	return verts
}

// orderedBoundaries sorts convex-area boundaries into traversal order. For
// a convex region traversed counterclockwise the boundary direction angles
// increase monotonically, so sorting by angle recovers the loop.
func orderedBoundaries(boundaries []*LineSubset) []*LineSubset {
	ordered := append([]*LineSubset(nil), boundaries...)
	sort.Slice(ordered, func(i, j int) bool {
		di := ordered[i].Line().Direction()
		dj := ordered[j].Line().Direction()
		return math.Atan2(di.Y, di.X) < math.Atan2(dj.Y, dj.X)
	})
	return ordered
}

// Transform returns the area mapped through the affine transform. When the
// transform reverses orientation every boundary is re-reversed so the
// interior stays on the minus side.
func (a *ConvexArea) Transform(at AffineTransform) *ConvexArea {
	if a.IsFull() {
		return FullArea()
	}
	flip := !at.PreservesOrientation()
	out := make([]*LineSubset, 0, len(a.boundaries))
	for _, b := range a.boundaries {
		nb := b.Transform(at)
		if flip {
			nb = nb.Reverse()
		}
		out = append(out, nb)
	}
	return &ConvexArea{boundaries: out}
}

// ToTree returns a BSP region tree equal to the area.
func (a *ConvexArea) ToTree() *Tree {
	t := EmptyTree()
	for _, b := range a.boundaries {
		t.Insert(b)
	}
	if a.IsFull() {
		t.engine.Complement()
	}
	return t
}
