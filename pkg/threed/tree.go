package threed

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/bsp"
)

// Engine is the generic BSP tree instantiated for space.
type Engine = bsp.Tree[r3.Vec, Plane, *PlaneSubset]

// Tree is a BSP-tree-backed region of space. Boolean operations mutate the
// tree in place; boundary and size data are computed lazily and cached
// until the next structural mutation. Trees are not safe for concurrent
// use.
type Tree struct {
	engine *Engine

	cacheGen   uint64
	cacheValid bool
	boundaries []*PlaneSubset
	size       float64
	centroid   r3.Vec
	centroidOK bool
}

// FullTree returns a region covering all of space.
func FullTree() *Tree {
	return &Tree{engine: bsp.NewTree[r3.Vec, Plane, *PlaneSubset](true)}
}

// EmptyTree returns a region containing nothing.
func EmptyTree() *Tree {
	return &Tree{engine: bsp.NewTree[r3.Vec, Plane, *PlaneSubset](false)}
}

// TreeFromBoundaries returns the region built by inserting each boundary
// facet in order. Boundaries must be oriented with their minus side toward
// the region interior.
func TreeFromBoundaries(boundaries []*PlaneSubset) *Tree {
	t := EmptyTree()
	for _, b := range boundaries {
		t.Insert(b)
	}
	return t
}

// Engine returns the underlying generic BSP tree.
func (t *Tree) Engine() *Engine { return t.engine }

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int { return t.engine.Count() }

// Height returns the height of the tree.
func (t *Tree) Height() int { return t.engine.Height() }

// IsFull reports whether the region covers all of space.
func (t *Tree) IsFull() bool { return t.engine.IsFull() }

// IsEmpty reports whether the region contains nothing.
func (t *Tree) IsEmpty() bool { return t.engine.IsEmpty() }

// Insert inserts a boundary facet into the region.
func (t *Tree) Insert(sub *PlaneSubset) { t.engine.Insert(sub) }

// Classify locates a point relative to the region.
func (t *Tree) Classify(pt r3.Vec) bsp.Location { return t.engine.Classify(pt) }

// Contains reports whether the point lies inside or on the boundary.
func (t *Tree) Contains(pt r3.Vec) bool { return t.engine.Classify(pt) != bsp.Outside }

// Copy returns a deep copy of the region.
func (t *Tree) Copy() *Tree { return &Tree{engine: t.engine.Copy()} }

// Complement flips the region in place.
func (t *Tree) Complement() { t.engine.Complement() }

// Union replaces the region with the union of itself and other, mutating
// the receiver in place; other is unchanged.
func (t *Tree) Union(other *Tree) { t.engine.Union(other.engine) }

// Intersection replaces the region with the intersection of itself and
// other.
func (t *Tree) Intersection(other *Tree) { t.engine.Intersection(other.engine) }

// Difference replaces the region with the portion of itself outside other.
func (t *Tree) Difference(other *Tree) { t.engine.Difference(other.engine) }

// Xor replaces the region with the symmetric difference of itself and
// other.
func (t *Tree) Xor(other *Tree) { t.engine.Xor(other.engine) }

// Split divides the region by a plane into two new trees; the receiver is
// unchanged.
func (t *Tree) Split(splitter Plane) bsp.Split[*Tree] {
	sp := t.engine.Split(splitter)
	out := bsp.Split[*Tree]{Loc: sp.Loc}
	if sp.Loc == bsp.SplitMinus || sp.Loc == bsp.SplitBoth {
		out.Minus = &Tree{engine: sp.Minus}
	}
	if sp.Loc == bsp.SplitPlus || sp.Loc == bsp.SplitBoth {
		out.Plus = &Tree{engine: sp.Plus}
	}
	return out
}

// Transform maps the region through the affine transform in place. When
// the transform reverses orientation the minus/plus children of every cut
// are swapped so region membership is preserved.
func (t *Tree) Transform(at AffineTransform3) {
	t.engine.TransformCuts(func(s *PlaneSubset) *PlaneSubset {
		return s.Transform(at)
	}, !at.PreservesOrientation())
}

// refresh recomputes cached boundary and size data when the tree has been
// structurally modified since the last computation.
func (t *Tree) refresh() {
	gen := t.engine.Generation()
	if t.cacheValid && t.cacheGen == gen {
		return
	}
	t.boundaries = t.engine.Boundaries()
	if len(t.boundaries) == 0 && !t.engine.IsEmpty() {
		// Inside leaves with no boundary: the region extends without bound.
		t.size, t.centroid, t.centroidOK = math.Inf(1), r3.Vec{}, false
	} else {
		t.size, t.centroid, t.centroidOK = regionSizeCentroid(t.boundaries)
	}
	t.cacheGen = gen
	t.cacheValid = true
}

// regionSizeCentroid computes volume and centroid from boundary facets. Any
// unbounded facet makes the volume infinite, as does a negative total
// signed volume, which indicates an inside-out region enclosing a finite
// hole.
func regionSizeCentroid(boundaries []*PlaneSubset) (float64, r3.Vec, bool) {
	for _, b := range boundaries {
		if !b.IsFinite() {
			return math.Inf(1), r3.Vec{}, false
		}
	}
	size, centroid, ok := tetrahedra(boundaries)
	if !ok {
		return 0, r3.Vec{}, false
	}
	if size < 0 {
		return math.Inf(1), r3.Vec{}, false
	}
	return size, centroid, true
}

// Boundaries returns the region's boundary facets, each oriented with its
// minus side toward the interior. The result is cached until the next
// structural mutation and must not be modified.
func (t *Tree) Boundaries() []*PlaneSubset {
	t.refresh()
	return t.boundaries
}

// Size returns the volume of the region, possibly infinite.
func (t *Tree) Size() float64 {
	t.refresh()
	return t.size
}

// Centroid returns the centroid of a finite region. The second return is
// false for infinite or empty regions.
func (t *Tree) Centroid() (r3.Vec, bool) {
	t.refresh()
	return t.centroid, t.centroidOK
}

// Project returns the boundary point closest to pt, breaking distance ties
// lexicographically by coordinates. The second return is false when the
// region has no boundary.
func (t *Tree) Project(pt r3.Vec) (r3.Vec, bool) {
	t.refresh()
	if len(t.boundaries) == 0 {
		return r3.Vec{}, false
	}
	prec := t.boundaries[0].plane.prec
	var best r3.Vec
	bestDist := math.Inf(1)
	for _, b := range t.boundaries {
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

// ToConvex decomposes the region into the convex volumes of its inside
// leaves.
func (t *Tree) ToConvex() []*ConvexVolume {
	var out []*ConvexVolume
	collectConvex(t.engine.Root(), FullVolume(), &out)
	return out
}

func collectConvex(n *bsp.Node[r3.Vec, Plane, *PlaneSubset], region *ConvexVolume, out *[]*ConvexVolume) {
	if n.IsLeaf() {
		if n.IsInside() {
			*out = append(*out, region)
		}
		return
	}
	sp := region.Split(n.Cut().Hyperplane())
	switch sp.Loc {
	case bsp.SplitBoth:
		collectConvex(n.Minus(), sp.Minus, out)
		collectConvex(n.Plus(), sp.Plus, out)
	case bsp.SplitMinus:
		collectConvex(n.Minus(), sp.Minus, out)
	case bsp.SplitPlus:
		collectConvex(n.Plus(), sp.Plus, out)
	}
}
