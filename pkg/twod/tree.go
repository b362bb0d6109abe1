package twod

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
)

// Engine is the generic BSP tree instantiated for the plane.
type Engine = bsp.Tree[r2.Vec, Line, *LineSubset]

// Tree is a BSP-tree-backed region of the plane. Boolean operations mutate
// the tree in place; boundary, path and size data are computed lazily and
// cached until the next structural mutation. Trees are not safe for
// concurrent use.
type Tree struct {
	engine *Engine

	cacheGen   uint64
	cacheValid bool
	boundaries []*LineSubset
	paths      []*LinePath
	pathsValid bool
	size       float64
	centroid   r2.Vec
	centroidOK bool
}

// FullTree returns a region covering the entire plane.
func FullTree() *Tree {
	return &Tree{engine: bsp.NewTree[r2.Vec, Line, *LineSubset](true)}
}

// EmptyTree returns a region containing nothing.
func EmptyTree() *Tree {
	return &Tree{engine: bsp.NewTree[r2.Vec, Line, *LineSubset](false)}
}

// TreeFromBoundaries returns the region built by inserting each boundary
// subset in order. Boundaries must be oriented with their minus side toward
// the region interior.
func TreeFromBoundaries(boundaries []*LineSubset) *Tree {
	t := EmptyTree()
	for _, b := range boundaries {
		t.Insert(b)
	}
	return t
}

// TreeFromPath returns the region enclosed by a closed line path.
func TreeFromPath(path *LinePath) *Tree {
	return TreeFromBoundaries(path.Subsets())
}

// Engine returns the underlying generic BSP tree.
func (t *Tree) Engine() *Engine { return t.engine }

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int { return t.engine.Count() }

// Height returns the height of the tree.
func (t *Tree) Height() int { return t.engine.Height() }

// IsFull reports whether the region covers the entire plane.
func (t *Tree) IsFull() bool { return t.engine.IsFull() }

// IsEmpty reports whether the region contains nothing.
func (t *Tree) IsEmpty() bool { return t.engine.IsEmpty() }

// Insert inserts a boundary subset into the region.
func (t *Tree) Insert(sub *LineSubset) { t.engine.Insert(sub) }

// Classify locates a point relative to the region.
func (t *Tree) Classify(pt r2.Vec) bsp.Location { return t.engine.Classify(pt) }

// Contains reports whether the point lies inside or on the boundary.
func (t *Tree) Contains(pt r2.Vec) bool { return t.engine.Classify(pt) != bsp.Outside }

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

// Split divides the region by a line into two new trees; the receiver is
// unchanged.
func (t *Tree) Split(splitter Line) bsp.Split[*Tree] {
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
func (t *Tree) Transform(at AffineTransform) {
	t.engine.TransformCuts(func(s *LineSubset) *LineSubset {
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
		t.size, t.centroid, t.centroidOK = math.Inf(1), r2.Vec{}, false
	} else {
		t.size, t.centroid, t.centroidOK = regionSizeCentroid(t.boundaries)
	}
	t.paths = nil
	t.pathsValid = false
	t.cacheGen = gen
	t.cacheValid = true
}

// regionSizeCentroid computes area and centroid from boundary pieces. Any
// infinite piece makes the area infinite, as does a negative total signed
// area, which indicates an inside-out region enclosing a finite hole.
func regionSizeCentroid(boundaries []*LineSubset) (float64, r2.Vec, bool) {
	for _, b := range boundaries {
		if !b.IsFinite() {
			return math.Inf(1), r2.Vec{}, false
		}
	}
	size, centroid, ok := shoelace(boundaries)
	if !ok {
		return 0, r2.Vec{}, false
	}
	if size < 0 {
		return math.Inf(1), r2.Vec{}, false
	}
	return size, centroid, true
}

// Boundaries returns the region's boundary pieces, each oriented with its
// minus side toward the interior. The result is cached until the next
// structural mutation and must not be modified.
func (t *Tree) Boundaries() []*LineSubset {
	t.refresh()
	return t.boundaries
}

// BoundaryPaths returns the region boundary connected into maximal
// oriented paths using the angle-minimizing connector. The result is
// cached until the next structural mutation.
func (t *Tree) BoundaryPaths() []*LinePath {
	t.refresh()
	if !t.pathsValid {
		t.paths = NewConnector(AngleMinimize).Connect(t.boundaries)
		t.pathsValid = true
	}
	return t.paths
}

// Size returns the area of the region, possibly infinite.
func (t *Tree) Size() float64 {
	t.refresh()
	return t.size
}

// Centroid returns the centroid of a finite region. The second return is
// false for infinite or empty regions.
func (t *Tree) Centroid() (r2.Vec, bool) {
	t.refresh()
	return t.centroid, t.centroidOK
}

// Project returns the boundary point closest to pt, breaking distance ties
// lexicographically by coordinates. The second return is false when the
// region has no boundary.
func (t *Tree) Project(pt r2.Vec) (r2.Vec, bool) {
	t.refresh()
	if len(t.boundaries) == 0 {
		return r2.Vec{}, false
	}
	prec := t.boundaries[0].Line().Precision()
	var best r2.Vec
	bestDist := math.Inf(1)
	for _, b := range t.boundaries {
		candidate := b.ClosestPoint(pt)
		dist := r2.Norm(r2.Sub(candidate, pt))
		switch {
		case prec.Eq(dist, bestDist):
			if lexLess(candidate, best) {
				best = candidate
			}
		case dist < bestDist:
			best, bestDist = candidate, dist
		}
	}
	return best, true
}

// ToConvex decomposes the region into the convex areas of its inside
// leaves.
func (t *Tree) ToConvex() []*ConvexArea {
	var out []*ConvexArea
	collectConvex(t.engine.Root(), FullArea(), &out)
	return out
}

func collectConvex(n *bsp.Node[r2.Vec, Line, *LineSubset], region *ConvexArea, out *[]*ConvexArea) {
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
