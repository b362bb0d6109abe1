package threed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

// ConvexVolume is a convex region of space represented directly as an
// unordered list of boundary facets, each oriented with its minus side
// facing the region interior. An empty boundary list represents all of
// space; an empty region is not representable and is rejected at
// construction. Convex volumes are immutable.
type ConvexVolume struct {
	boundaries []*PlaneSubset
}

// FullVolume returns the convex volume covering all of space.
func FullVolume() *ConvexVolume {
	return &ConvexVolume{}
}

// VolumeFromBounds builds the convex volume equal to the intersection of
// the minus half-spaces of the given bounding planes. Each bound starts as
// a full span and is trimmed against every other bound. Duplicate bounds
// with the same orientation keep a single representative; coincident bounds
// with opposite orientations cannot enclose any volume and are an error, as
// is any set of bounds whose trimming removes every boundary.
func VolumeFromBounds(bounds []Plane) (*ConvexVolume, error) {
	if len(bounds) == 0 {
		return FullVolume(), nil
	}

	var kept []*PlaneSubset
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
				// Coincident bounding planes.
				if !bound.SimilarOrientation(other) {
					return nil, fmt.Errorf(
						"threed: bounds %d (%s) and %d (%s) are coincident with opposite orientations and cannot enclose a convex volume",
						i, bound, j, other)
				}
				if j < i {
					// Duplicate; the earlier bound is the representative.
					keep = false
				}
			case bsp.SplitMinus:
				sub = sp.Minus
			case bsp.SplitPlus:
				// Entirely outside this bound's half-space.
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
		return nil, fmt.Errorf("threed: bounds do not enclose a convex volume (first bound: %s)", bounds[0])
	}
	return &ConvexVolume{boundaries: kept}, nil
}

// BoxVolume returns the axis-aligned box with the given corners as a convex
// volume. Each coordinate of min must lie below the matching coordinate of
// max by more than tolerance.
func BoxVolume(min, max r3.Vec, prec precision.Context) (*ConvexVolume, error) {
	if !prec.Lt(min.X, max.X) || !prec.Lt(min.Y, max.Y) || !prec.Lt(min.Z, max.Z) {
		return nil, fmt.Errorf("threed: invalid box corners %v, %v", min, max)
	}
	bounds := make([]Plane, 0, 6)
	for _, face := range []struct {
		pt, normal r3.Vec
	}{
		{min, r3.Vec{X: -1}},
		{max, r3.Vec{X: 1}},
		{min, r3.Vec{Y: -1}},
		{max, r3.Vec{Y: 1}},
		{min, r3.Vec{Z: -1}},
		{max, r3.Vec{Z: 1}},
	} {
		p, err := PlaneFromPointAndNormal(face.pt, face.normal, prec)
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, p)
	}
	return VolumeFromBounds(bounds)
}

// Boundaries returns the boundary facets of the volume. The returned slice
// must not be modified.
func (v *ConvexVolume) Boundaries() []*PlaneSubset { return v.boundaries }

// IsFull reports whether the volume covers all of space.
func (v *ConvexVolume) IsFull() bool { return len(v.boundaries) == 0 }

// IsFinite reports whether every boundary of the volume is a bounded facet.
func (v *ConvexVolume) IsFinite() bool {
	if v.IsFull() {
		return false
	}
	for _, b := range v.boundaries {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

// Classify locates a point relative to the volume.
func (v *ConvexVolume) Classify(pt r3.Vec) bsp.Location {
	onBoundary := false
	for _, b := range v.boundaries {
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
func (v *ConvexVolume) Contains(pt r3.Vec) bool {
	return v.Classify(pt) != bsp.Outside
}

// Size returns the volume, which is infinite when any boundary is unbounded
// or the volume is all of space.
func (v *ConvexVolume) Size() float64 {
	if !v.IsFinite() {
		return math.Inf(1)
	}
	size, _, _ := tetrahedra(v.boundaries)
	return size
}

// Centroid returns the centroid of a finite volume. The second return is
// false for infinite or degenerate volumes.
func (v *ConvexVolume) Centroid() (r3.Vec, bool) {
	if !v.IsFinite() {
		return r3.Vec{}, false
	}
	size, centroid, ok := tetrahedra(v.boundaries)
	if !ok || size <= 0 {
		return r3.Vec{}, false
	}
	return centroid, true
}

// tetrahedra accumulates the signed volume and first moments of a set of
// finite, consistently outward-oriented boundary facets by fanning each
// facet into origin-based tetrahedra. The facet order is irrelevant because
// each facet contributes independently.
func tetrahedra(boundaries []*PlaneSubset) (float64, r3.Vec, bool) {
	var vol6 float64
	var moment r3.Vec
	for _, b := range boundaries {
		verts := b.Vertices()
		if verts == nil {
			return math.Inf(1), r3.Vec{}, false
		}
		v0 := verts[0]
		for i := 1; i < len(verts)-1; i++ {
			a, c := verts[i], verts[i+1]
			det := r3.Dot(v0, r3.Cross(a, c))
			vol6 += det
			moment = r3.Add(moment, r3.Scale(det, r3.Add(v0, r3.Add(a, c))))
		}
	}
	if vol6 == 0 {
		return 0, r3.Vec{}, false
	}
	vol := vol6 / 6
	// Each tetrahedron's centroid is (v0+a+c)/4; the origin vertex
	// contributes nothing.
	centroid := r3.Scale(1/(4*vol6), moment)
	return vol, centroid, true
}

// Split cuts the volume by the splitter plane, producing the convex pieces
// on each side. A volume whose boundary is coplanar with the splitter lies
// entirely on the side its own orientation dictates.
func (v *ConvexVolume) Split(splitter Plane) bsp.Split[*ConvexVolume] {
	if v.IsFull() {
		return bsp.NewSplitBoth(
			&ConvexVolume{boundaries: []*PlaneSubset{splitter.Span()}},
			&ConvexVolume{boundaries: []*PlaneSubset{splitter.Reverse().Span()}},
		)
	}

	var minusList, plusList []*PlaneSubset
	for _, b := range v.boundaries {
		sp := b.Split(splitter)
		switch sp.Loc {
		case bsp.SplitNeither:
			// A boundary lies exactly on the splitter: the entire volume is
			// on one side, determined by relative orientation.
			if b.Hyperplane().SimilarOrientation(splitter) {
				return bsp.NewSplitMinus(v)
			}
			return bsp.NewSplitPlus(v)
		case bsp.SplitMinus:
			minusList = append(minusList, b)
		case bsp.SplitPlus:
			plusList = append(plusList, b)
		case bsp.SplitBoth:
			minusList = append(minusList, sp.Minus)
			plusList = append(plusList, sp.Plus)
		}
	}

	// The splitter crosses the interior exactly when a positive-area
	// portion of it lies inside the volume. The facet side lists cannot
	// decide this: a splitter parallel to every bound of an unbounded
	// volume leaves all facets on one side while still cutting the
	// interior.
	trimmed, ok := v.Trim(splitter.Span())
	if !ok {
		return v.splitSide(splitter)
	}

	minusVolume := &ConvexVolume{boundaries: append(minusList, trimmed)}
	plusVolume := &ConvexVolume{boundaries: append(plusList, trimmed.Reverse())}
	return bsp.NewSplitBoth(minusVolume, plusVolume)
}

// splitSide resolves a split that leaves the volume entirely on one side of
// the splitter: a single facet determines the side, with relative
// orientation deciding the coplanar case.
func (v *ConvexVolume) splitSide(splitter Plane) bsp.Split[*ConvexVolume] {
	sp := v.boundaries[0].Split(splitter)
	switch sp.Loc {
	case bsp.SplitPlus:
		return bsp.NewSplitPlus(v)
	case bsp.SplitNeither:
		if !v.boundaries[0].Plane().SimilarOrientation(splitter) {
			return bsp.NewSplitPlus(v)
		}
	}
	return bsp.NewSplitMinus(v)
}

// Trim cuts the subset down to the portion lying inside the volume. The
// second return is false when nothing remains. Subsets coplanar with a
// boundary are trimmed by the remaining bounds only.
func (v *ConvexVolume) Trim(sub *PlaneSubset) (*PlaneSubset, bool) {
	cur := sub
	for _, b := range v.boundaries {
		sp := cur.Split(b.Hyperplane())
		switch sp.Loc {
		case bsp.SplitNeither:
			// Coplanar with this boundary; no trimming possible here.
		case bsp.SplitMinus:
			cur = sp.Minus
		case bsp.SplitPlus:
			return nil, false
		case bsp.SplitBoth:
			cur = sp.Minus
		}
	}
	if cur.IsFinite() && cur.plane.prec.EqZero(cur.Size()) {
		return nil, false
	}
	return cur, true
}

// Project returns the point of the volume's boundary closest to pt,
// breaking distance ties lexicographically by coordinates. The second
// return is false for full space, which has no boundary.
func (v *ConvexVolume) Project(pt r3.Vec) (r3.Vec, bool) {
	if v.IsFull() {
		return r3.Vec{}, false
	}
	prec := v.boundaries[0].plane.prec
	var best r3.Vec
	bestDist := math.Inf(1)
	for _, b := range v.boundaries {
		candidate := b.ClosestPoint(pt)
		dist := r3.Norm(r3.Sub(candidate, pt))
		switch {
		case prec.Eq(dist, bestDist):
			if lexLess3(candidate, best) {
				best = candidate
			}
		case dist < bestDist:
			best, bestDist = candidate, dist
		}
	}
	return best, true
}

// Transform returns the volume mapped through the affine transform. When
// the transform reverses orientation every boundary is re-reversed so the
// interior stays on the minus side.
func (v *ConvexVolume) Transform(at AffineTransform3) *ConvexVolume {
	if v.IsFull() {
		return FullVolume()
	}
	flip := !at.PreservesOrientation()
	out := make([]*PlaneSubset, 0, len(v.boundaries))
	for _, b := range v.boundaries {
		nb := b.Transform(at)
		if flip {
			nb = nb.Reverse()
		}
		out = append(out, nb)
	}
	return &ConvexVolume{boundaries: out}
}

// ToTree returns a BSP region tree equal to the volume.
func (v *ConvexVolume) ToTree() *Tree {
	t := EmptyTree()
	for _, b := range v.boundaries {
		t.Insert(b)
	}
	if v.IsFull() {
		t.engine.Complement()
	}
	return t
}

// lexLess3 orders points by X, then Y, then Z. Used as the deterministic
// tie-break for equidistant projection candidates.
func lexLess3(a, b r3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
