package twod

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
)

// squareTree returns the axis-aligned square [x0,x0+size] x [y0,y0+size]
// as a BSP region.
func squareTree(t *testing.T, x0, y0, size float64) *Tree {
	t.Helper()
	return squareArea(t, x0, y0, size).ToTree()
}

func TestEmptyAndFullTrees(t *testing.T) {
	if !EmptyTree().IsEmpty() {
		t.Error("EmptyTree().IsEmpty() = false")
	}
	if !FullTree().IsFull() {
		t.Error("FullTree().IsFull() = false")
	}
	if got := EmptyTree().Size(); got != 0 {
		t.Errorf("empty Size() = %v, want 0", got)
	}
	if got := FullTree().Size(); !math.IsInf(got, 1) {
		t.Errorf("full Size() = %v, want +Inf", got)
	}
}

func TestTreeClassify(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)

	tests := []struct {
		name string
		pt   r2.Vec
		want bsp.Location
	}{
		{"interior", r2.Vec{X: 2, Y: 2}, bsp.Inside},
		{"outside", r2.Vec{X: 6, Y: 6}, bsp.Outside},
		{"edge", r2.Vec{X: 0, Y: 2}, bsp.Boundary},
		{"corner", r2.Vec{X: 4, Y: 4}, bsp.Boundary},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sq.Classify(tc.pt); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}
}

func TestTwoSquaresBooleans(t *testing.T) {
	// Overlapping squares: [0,4]^2 and [2,6]^2 share the square [2,4]^2.
	makeA := func() *Tree { return squareTree(t, 0, 0, 4) }
	makeB := func() *Tree { return squareTree(t, 2, 2, 4) }

	t.Run("intersection", func(t *testing.T) {
		a, b := makeA(), makeB()
		a.Intersection(b)
		if got, want := a.Size(), 4.0; !testPrec.Eq(got, want) {
			t.Errorf("Size() = %v, want %v", got, want)
		}
		c, ok := a.Centroid()
		if !ok || !vecsEq(c, r2.Vec{X: 3, Y: 3}) {
			t.Errorf("Centroid() = %v, %v, want (3,3), true", c, ok)
		}
		if got := a.Classify(r2.Vec{X: 1, Y: 1}); got != bsp.Outside {
			t.Errorf("Classify((1,1)) = %v, want Outside", got)
		}
	})

	t.Run("union", func(t *testing.T) {
		a, b := makeA(), makeB()
		a.Union(b)
		if got, want := a.Size(), 28.0; !testPrec.Eq(got, want) {
			t.Errorf("Size() = %v, want %v", got, want)
		}
		for _, pt := range []r2.Vec{{X: 1, Y: 1}, {X: 3, Y: 3}, {X: 5, Y: 5}} {
			if got := a.Classify(pt); got != bsp.Inside {
				t.Errorf("Classify(%v) = %v, want Inside", pt, got)
			}
		}
		if got := a.Classify(r2.Vec{X: 5, Y: 1}); got != bsp.Outside {
			t.Errorf("Classify((5,1)) = %v, want Outside", got)
		}
	})

	t.Run("difference", func(t *testing.T) {
		a, b := makeA(), makeB()
		a.Difference(b)
		if got, want := a.Size(), 12.0; !testPrec.Eq(got, want) {
			t.Errorf("Size() = %v, want %v", got, want)
		}
		if got := a.Classify(r2.Vec{X: 1, Y: 1}); got != bsp.Inside {
			t.Errorf("Classify((1,1)) = %v, want Inside", got)
		}
		if got := a.Classify(r2.Vec{X: 3, Y: 3}); got != bsp.Outside {
			t.Errorf("Classify((3,3)) = %v, want Outside", got)
		}
	})

	t.Run("xor", func(t *testing.T) {
		a, b := makeA(), makeB()
		a.Xor(b)
		if got, want := a.Size(), 24.0; !testPrec.Eq(got, want) {
			t.Errorf("Size() = %v, want %v", got, want)
		}
		if got := a.Classify(r2.Vec{X: 3, Y: 3}); got != bsp.Outside {
			t.Errorf("Classify((3,3)) = %v, want Outside", got)
		}
		if got := a.Classify(r2.Vec{X: 5, Y: 5}); got != bsp.Inside {
			t.Errorf("Classify((5,5)) = %v, want Inside", got)
		}
	})
}

func TestUnionKeepsCollinearBoundary(t *testing.T) {
	// Disjoint squares whose bottom edges lie on the same line. Merging
	// dissolves one tree's cut into the other's; no boundary piece on the
	// shared line may be lost.
	a := squareTree(t, 0, 0, 2)
	a.Union(squareTree(t, 4, 0, 2))

	if got, want := a.Size(), 8.0; !testPrec.Eq(got, want) {
		t.Errorf("Size() = %v, want %v", got, want)
	}
	var total float64
	for _, b := range a.Boundaries() {
		if !b.IsFinite() {
			t.Fatalf("boundary %v is not finite", b)
		}
		total += b.Size()
	}
	if want := 16.0; !testPrec.Eq(total, want) {
		t.Errorf("total boundary length = %v, want %v", total, want)
	}

	paths := a.BoundaryPaths()
	if len(paths) != 2 {
		t.Fatalf("BoundaryPaths() returned %d paths, want 2", len(paths))
	}
	for _, p := range paths {
		if !p.IsClosed() {
			t.Errorf("path %v is not closed", p)
		}
		if got, want := p.Length(), 8.0; !testPrec.Eq(got, want) {
			t.Errorf("path length = %v, want %v", got, want)
		}
	}

	// The bottom edges themselves survive as boundary.
	for _, pt := range []r2.Vec{{X: 1}, {X: 5}} {
		if got := a.Classify(pt); got != bsp.Boundary {
			t.Errorf("Classify(%v) = %v, want Boundary", pt, got)
		}
	}
}

func TestUnionWithCopyIsIdempotent(t *testing.T) {
	a := squareTree(t, 0, 0, 4)
	a.Union(a.Copy())

	if got, want := a.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("Size() after self-union = %v, want %v", got, want)
	}
	c, ok := a.Centroid()
	if !ok || !vecsEq(c, r2.Vec{X: 2, Y: 2}) {
		t.Errorf("Centroid() = %v, %v, want (2,2), true", c, ok)
	}
}

func TestTreeComplement(t *testing.T) {
	a := squareTree(t, 0, 0, 4)
	a.Complement()

	if got := a.Classify(r2.Vec{X: 2, Y: 2}); got != bsp.Outside {
		t.Errorf("complement Classify(center) = %v, want Outside", got)
	}
	if got := a.Classify(r2.Vec{X: -1, Y: -1}); got != bsp.Inside {
		t.Errorf("complement Classify(outside) = %v, want Inside", got)
	}
	if got := a.Size(); !math.IsInf(got, 1) {
		t.Errorf("complement Size() = %v, want +Inf", got)
	}

	a.Complement()
	if got, want := a.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("double complement Size() = %v, want %v", got, want)
	}
}

func TestTreeSplitPartitionsRegion(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)
	splitter := mustLine(t, r2.Vec{X: 1}, r2.Vec{X: 1, Y: 1})

	sp := sq.Split(splitter)
	if sp.Loc != bsp.SplitBoth {
		t.Fatalf("Split location = %v, want SplitBoth", sp.Loc)
	}
	if got, want := sp.Minus.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("minus Size() = %v, want %v", got, want)
	}
	if got, want := sp.Plus.Size(), 12.0; !testPrec.Eq(got, want) {
		t.Errorf("plus Size() = %v, want %v", got, want)
	}

	// Re-uniting the halves recovers the original region.
	sp.Minus.Union(sp.Plus)
	if got, want := sp.Minus.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("reunited Size() = %v, want %v", got, want)
	}
	if got, want := sq.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("source tree modified by Split: Size() = %v, want %v", got, want)
	}
}

func TestTreeSplitMiss(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)
	splitter := mustLine(t, r2.Vec{X: 10}, r2.Vec{X: 10, Y: 1})

	sp := sq.Split(splitter)
	if sp.Loc != bsp.SplitMinus {
		t.Fatalf("Split location = %v, want SplitMinus", sp.Loc)
	}
	if got, want := sp.Minus.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("minus Size() = %v, want %v", got, want)
	}
}

func TestBoundariesFaceOutward(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)

	bounds := sq.Boundaries()
	if len(bounds) == 0 {
		t.Fatal("square has no boundaries")
	}
	var total float64
	for _, b := range bounds {
		if !b.IsFinite() {
			t.Fatalf("square boundary %v is not finite", b)
		}
		total += b.Size()

		// A point nudged toward the minus side must be inside, toward the
		// plus side outside.
		mid, _ := b.Centroid()
		n := b.Line().Normal()
		inside := r2.Sub(mid, r2.Scale(1e-6, n))
		outside := r2.Add(mid, r2.Scale(1e-6, n))
		if got := sq.Classify(inside); got != bsp.Inside {
			t.Errorf("point on minus side of %v classified %v, want Inside", b, got)
		}
		if got := sq.Classify(outside); got != bsp.Outside {
			t.Errorf("point on plus side of %v classified %v, want Outside", b, got)
		}
	}
	if want := 16.0; !testPrec.Eq(total, want) {
		t.Errorf("total boundary length = %v, want %v", total, want)
	}
}

func TestBoundariesCachedUntilMutation(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)

	b1 := sq.Boundaries()
	b2 := sq.Boundaries()
	if len(b1) != len(b2) {
		t.Fatalf("repeated Boundaries() lengths differ: %d vs %d", len(b1), len(b2))
	}

	sq.Union(squareTree(t, 2, 2, 4))
	if got, want := sq.Size(), 28.0; !testPrec.Eq(got, want) {
		t.Errorf("Size() after mutation = %v, want %v", got, want)
	}
}

func TestTreeProject(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)

	got, ok := sq.Project(r2.Vec{X: 6, Y: 2})
	if !ok || !vecsEq(got, r2.Vec{X: 4, Y: 2}) {
		t.Errorf("Project((6,2)) = %v, %v, want (4,2), true", got, ok)
	}
	if _, ok := EmptyTree().Project(r2.Vec{}); ok {
		t.Error("empty tree Project reported a point")
	}
}

func TestTreeToConvex(t *testing.T) {
	a := squareTree(t, 0, 0, 4)
	a.Union(squareTree(t, 2, 2, 4))

	var total float64
	for _, c := range a.ToConvex() {
		size := c.Size()
		if math.IsInf(size, 1) {
			t.Fatal("convex piece of a finite region is infinite")
		}
		total += size
		centroid, ok := c.Centroid()
		if !ok {
			t.Fatal("convex piece has no centroid")
		}
		if got := a.Classify(centroid); got != bsp.Inside {
			t.Errorf("piece centroid %v classified %v, want Inside", centroid, got)
		}
	}
	if want := 28.0; !testPrec.Eq(total, want) {
		t.Errorf("convex pieces total %v, want %v", total, want)
	}
}

func TestTreeTransform(t *testing.T) {
	sq := squareTree(t, 0, 0, 2)
	sq.Transform(Translation(r2.Vec{X: 3, Y: 1}))

	if got, want := sq.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("translated Size() = %v, want %v", got, want)
	}
	c, _ := sq.Centroid()
	if want := (r2.Vec{X: 4, Y: 2}); !vecsEq(c, want) {
		t.Errorf("translated Centroid() = %v, want %v", c, want)
	}
}

func TestTreeTransformReflection(t *testing.T) {
	sq := squareTree(t, 1, 0, 2)
	sq.Transform(Scaling(-1, 1))

	if got, want := sq.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("mirrored Size() = %v, want %v", got, want)
	}
	if got := sq.Classify(r2.Vec{X: -2, Y: 1}); got != bsp.Inside {
		t.Errorf("mirrored Classify((-2,1)) = %v, want Inside", got)
	}
	if got := sq.Classify(r2.Vec{X: 2, Y: 1}); got != bsp.Outside {
		t.Errorf("mirrored Classify((2,1)) = %v, want Outside", got)
	}
}

func TestLinecastOrdersHitsNearToFar(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)
	ray, err := RayFromPoint(mustLine(t, r2.Vec{X: -2, Y: 2}, r2.Vec{X: 10, Y: 2}), r2.Vec{X: -2, Y: 2})
	if err != nil {
		t.Fatalf("RayFromPoint: %v", err)
	}

	hits := sq.Linecast(ray)
	if len(hits) != 2 {
		t.Fatalf("Linecast returned %d hits, want 2", len(hits))
	}
	if !vecsEq(hits[0].Point, r2.Vec{X: 0, Y: 2}) {
		t.Errorf("first hit at %v, want (0,2)", hits[0].Point)
	}
	if !vecsEq(hits[1].Point, r2.Vec{X: 4, Y: 2}) {
		t.Errorf("second hit at %v, want (4,2)", hits[1].Point)
	}
	if want := (r2.Vec{X: -1, Y: 0}); !vecsEq(hits[0].Normal, want) {
		t.Errorf("first hit normal %v, want %v", hits[0].Normal, want)
	}
	if want := (r2.Vec{X: 1, Y: 0}); !vecsEq(hits[1].Normal, want) {
		t.Errorf("second hit normal %v, want %v", hits[1].Normal, want)
	}
	if hits[0].Abscissa >= hits[1].Abscissa {
		t.Errorf("hits not ordered: abscissae %v, %v", hits[0].Abscissa, hits[1].Abscissa)
	}
}

func TestLinecastFirst(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)

	ray, err := RayFromPoint(mustLine(t, r2.Vec{X: 2, Y: 2}, r2.Vec{X: 2, Y: 10}), r2.Vec{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("RayFromPoint: %v", err)
	}
	hit, ok := sq.LinecastFirst(ray)
	if !ok {
		t.Fatal("LinecastFirst reported no hit")
	}
	if !vecsEq(hit.Point, r2.Vec{X: 2, Y: 4}) {
		t.Errorf("first hit at %v, want (2,4)", hit.Point)
	}

	miss, err := RayFromPoint(mustLine(t, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 11, Y: 10}), r2.Vec{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("RayFromPoint: %v", err)
	}
	if _, ok := sq.LinecastFirst(miss); ok {
		t.Error("LinecastFirst reported a hit on a miss")
	}
}

func TestLinecastDisjointComponentsOrdered(t *testing.T) {
	// Two disjoint squares along the ray: the hits of the nearer component
	// must all precede those of the farther one, and LinecastFirst must
	// agree with the head of the ordered list.
	region := squareTree(t, 0, 0, 2)
	region.Union(squareTree(t, 4, 0, 2))

	ray, err := RayFromPoint(mustLine(t, r2.Vec{X: -1, Y: 1}, r2.Vec{X: 10, Y: 1}), r2.Vec{X: -1, Y: 1})
	if err != nil {
		t.Fatalf("RayFromPoint: %v", err)
	}

	hits := region.Linecast(ray)
	want := []r2.Vec{{X: 0, Y: 1}, {X: 2, Y: 1}, {X: 4, Y: 1}, {X: 6, Y: 1}}
	if len(hits) != len(want) {
		t.Fatalf("Linecast returned %d hits, want %d", len(hits), len(want))
	}
	for i, h := range hits {
		if !vecsEq(h.Point, want[i]) {
			t.Errorf("hit %d at %v, want %v", i, h.Point, want[i])
		}
		if i > 0 && hits[i-1].Abscissa >= h.Abscissa {
			t.Errorf("hits %d, %d not ordered: abscissae %v, %v", i-1, i, hits[i-1].Abscissa, h.Abscissa)
		}
	}

	first, ok := region.LinecastFirst(ray)
	if !ok {
		t.Fatal("LinecastFirst reported no hit")
	}
	if !vecsEq(first.Point, hits[0].Point) {
		t.Errorf("LinecastFirst at %v, want %v", first.Point, hits[0].Point)
	}
}

func TestLinecastCorner(t *testing.T) {
	sq := squareTree(t, 0, 0, 4)
	// Diagonal through two corners; each corner is reported once.
	seg, err := SegmentFromPoints(r2.Vec{X: -1, Y: -1}, r2.Vec{X: 5, Y: 5}, testPrec)
	if err != nil {
		t.Fatalf("SegmentFromPoints: %v", err)
	}

	hits := sq.Linecast(seg)
	if len(hits) != 2 {
		t.Fatalf("Linecast through corners returned %d hits, want 2", len(hits))
	}
	if !vecsEq(hits[0].Point, r2.Vec{}) || !vecsEq(hits[1].Point, r2.Vec{X: 4, Y: 4}) {
		t.Errorf("corner hits at %v, %v, want (0,0), (4,4)", hits[0].Point, hits[1].Point)
	}
}
