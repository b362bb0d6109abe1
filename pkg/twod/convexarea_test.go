package twod

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
)

// squareArea returns the axis-aligned square [x0,x0+size] x [y0,y0+size]
// as a convex area.
func squareArea(t *testing.T, x0, y0, size float64) *ConvexArea {
	t.Helper()
	a, err := AreaFromVertexLoop([]r2.Vec{
		{X: x0, Y: y0},
		{X: x0 + size, Y: y0},
		{X: x0 + size, Y: y0 + size},
		{X: x0, Y: y0 + size},
	}, testPrec)
	if err != nil {
		t.Fatalf("AreaFromVertexLoop: %v", err)
	}
	return a
}

func TestFullArea(t *testing.T) {
	a := FullArea()
	if !a.IsFull() {
		t.Error("FullArea().IsFull() = false")
	}
	if a.IsFinite() {
		t.Error("FullArea().IsFinite() = true")
	}
	if got := a.Size(); !math.IsInf(got, 1) {
		t.Errorf("FullArea().Size() = %v, want +Inf", got)
	}
	if got := a.Classify(r2.Vec{X: 123, Y: -456}); got != bsp.Inside {
		t.Errorf("FullArea().Classify = %v, want Inside", got)
	}
}

func TestSquareAreaMetrics(t *testing.T) {
	a := squareArea(t, 0, 0, 4)

	if !a.IsFinite() {
		t.Fatal("square area is not finite")
	}
	if got, want := a.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("Size() = %v, want %v", got, want)
	}
	c, ok := a.Centroid()
	if !ok || !vecsEq(c, r2.Vec{X: 2, Y: 2}) {
		t.Errorf("Centroid() = %v, %v, want (2,2), true", c, ok)
	}
}

func TestAreaClassify(t *testing.T) {
	a := squareArea(t, 0, 0, 4)

	tests := []struct {
		name string
		pt   r2.Vec
		want bsp.Location
	}{
		{"interior", r2.Vec{X: 2, Y: 2}, bsp.Inside},
		{"outside", r2.Vec{X: 5, Y: 2}, bsp.Outside},
		{"edge", r2.Vec{X: 4, Y: 2}, bsp.Boundary},
		{"corner", r2.Vec{X: 0, Y: 0}, bsp.Boundary},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Classify(tc.pt); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}
}

func TestAreaFromBoundsRejectsOpposedCoincidentLines(t *testing.T) {
	l := mustLine(t, r2.Vec{}, r2.Vec{X: 1})
	if _, err := AreaFromBounds([]Line{l, l.Reverse()}); err == nil {
		t.Fatal("AreaFromBounds with opposed coincident lines: want error, got nil")
	}
}

func TestAreaFromBoundsDeduplicates(t *testing.T) {
	l1 := mustLine(t, r2.Vec{}, r2.Vec{X: 1})
	l2 := mustLine(t, r2.Vec{X: 2}, r2.Vec{X: 3})

	a, err := AreaFromBounds([]Line{l1, l2})
	if err != nil {
		t.Fatalf("AreaFromBounds: %v", err)
	}
	if got, want := len(a.Boundaries()), 1; got != want {
		t.Errorf("boundary count = %d, want %d", got, want)
	}
}

func TestAreaSplit(t *testing.T) {
	a := squareArea(t, 0, 0, 4)
	// Vertical cut at x=1 with plus toward +X.
	splitter := mustLine(t, r2.Vec{X: 1}, r2.Vec{X: 1, Y: 1})

	sp := a.Split(splitter)
	if sp.Loc != bsp.SplitBoth {
		t.Fatalf("Split location = %v, want SplitBoth", sp.Loc)
	}
	if got, want := sp.Minus.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("minus size = %v, want %v", got, want)
	}
	if got, want := sp.Plus.Size(), 12.0; !testPrec.Eq(got, want) {
		t.Errorf("plus size = %v, want %v", got, want)
	}
	if got, want := sp.Minus.Size()+sp.Plus.Size(), a.Size(); !testPrec.Eq(got, want) {
		t.Errorf("split sizes sum to %v, want %v", got, want)
	}
}

func TestAreaSplitMiss(t *testing.T) {
	a := squareArea(t, 0, 0, 4)
	// Far away to the right; the square lies on the minus side.
	splitter := mustLine(t, r2.Vec{X: 10}, r2.Vec{X: 10, Y: 1})

	if sp := a.Split(splitter); sp.Loc != bsp.SplitMinus {
		t.Errorf("Split location = %v, want SplitMinus", sp.Loc)
	}
}

func TestAreaSplitCoincidentBoundary(t *testing.T) {
	a := squareArea(t, 0, 0, 4)
	// Coincident with the bottom edge, same orientation: the square is on
	// the minus side of its own boundary.
	bottom := mustLine(t, r2.Vec{}, r2.Vec{X: 1})

	if sp := a.Split(bottom); sp.Loc != bsp.SplitMinus {
		t.Errorf("Split on own boundary = %v, want SplitMinus", sp.Loc)
	}
	if sp := a.Split(bottom.Reverse()); sp.Loc != bsp.SplitPlus {
		t.Errorf("Split on reversed boundary = %v, want SplitPlus", sp.Loc)
	}
}

func TestAreaSplitUnboundedByParallelLine(t *testing.T) {
	// Half-plane y > 0, bounded only by the X axis. Every boundary of the
	// area is parallel to the splitters below, so the side of the cut must
	// be decided by where the splitter lies, not by the boundary pieces.
	a, err := AreaFromBounds([]Line{mustLine(t, r2.Vec{}, r2.Vec{X: 1})})
	if err != nil {
		t.Fatalf("AreaFromBounds: %v", err)
	}

	t.Run("crossing", func(t *testing.T) {
		// y = 2 cuts the interior; the minus side of the splitter is y > 2.
		splitter := mustLine(t, r2.Vec{Y: 2}, r2.Vec{X: 1, Y: 2})
		sp := a.Split(splitter)
		if sp.Loc != bsp.SplitBoth {
			t.Fatalf("Split location = %v, want SplitBoth", sp.Loc)
		}
		if got := sp.Minus.Classify(r2.Vec{Y: 3}); got != bsp.Inside {
			t.Errorf("minus Classify((0,3)) = %v, want Inside", got)
		}
		if got := sp.Minus.Classify(r2.Vec{Y: 1}); got != bsp.Outside {
			t.Errorf("minus Classify((0,1)) = %v, want Outside", got)
		}
		if got := sp.Plus.Classify(r2.Vec{Y: 1}); got != bsp.Inside {
			t.Errorf("plus Classify((0,1)) = %v, want Inside", got)
		}
		if got := sp.Plus.Classify(r2.Vec{Y: 3}); got != bsp.Outside {
			t.Errorf("plus Classify((0,3)) = %v, want Outside", got)
		}
		if got := sp.Plus.Classify(r2.Vec{Y: -1}); got != bsp.Outside {
			t.Errorf("plus Classify((0,-1)) = %v, want Outside", got)
		}
	})

	t.Run("miss", func(t *testing.T) {
		// y = -2 lies outside the half-plane, which sits entirely on the
		// splitter's minus side.
		splitter := mustLine(t, r2.Vec{Y: -2}, r2.Vec{X: 1, Y: -2})
		if sp := a.Split(splitter); sp.Loc != bsp.SplitMinus {
			t.Errorf("Split location = %v, want SplitMinus", sp.Loc)
		}
	})
}

func TestAreaFromBoundsRoundTrip(t *testing.T) {
	src := squareArea(t, 0, 0, 4)

	var bounds []Line
	for _, b := range src.Boundaries() {
		bounds = append(bounds, b.Line())
	}
	rebuilt, err := AreaFromBounds(bounds)
	if err != nil {
		t.Fatalf("AreaFromBounds: %v", err)
	}

	if got, want := len(rebuilt.Boundaries()), len(src.Boundaries()); got != want {
		t.Errorf("boundary count = %d, want %d", got, want)
	}
	if got, want := rebuilt.Size(), src.Size(); !testPrec.Eq(got, want) {
		t.Errorf("Size() = %v, want %v", got, want)
	}
	c, ok := rebuilt.Centroid()
	if !ok || !vecsEq(c, r2.Vec{X: 2, Y: 2}) {
		t.Errorf("Centroid() = %v, %v, want (2,2), true", c, ok)
	}
}

func TestAreaProject(t *testing.T) {
	a := squareArea(t, 0, 0, 4)

	tests := []struct {
		name string
		pt   r2.Vec
		want r2.Vec
	}{
		{"outside right", r2.Vec{X: 6, Y: 2}, r2.Vec{X: 4, Y: 2}},
		{"inside near top", r2.Vec{X: 2, Y: 3.5}, r2.Vec{X: 2, Y: 4}},
		{"beyond corner", r2.Vec{X: 5, Y: 5}, r2.Vec{X: 4, Y: 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := a.Project(tc.pt)
			if !ok || !vecsEq(got, tc.want) {
				t.Errorf("Project(%v) = %v, %v, want %v, true", tc.pt, got, ok, tc.want)
			}
		})
	}
}

func TestAreaProjectTieBreak(t *testing.T) {
	a := squareArea(t, 0, 0, 4)
	// The center is equidistant from all four edges; the lexicographically
	// smallest of the candidate points wins.
	got, ok := a.Project(r2.Vec{X: 2, Y: 2})
	if !ok {
		t.Fatal("Project returned no point")
	}
	if want := (r2.Vec{X: 0, Y: 2}); !vecsEq(got, want) {
		t.Errorf("Project(center) = %v, want %v", got, want)
	}
}

func TestAreaVertices(t *testing.T) {
	a := squareArea(t, 1, 1, 2)
	verts := a.Vertices()
	if len(verts) != 4 {
		t.Fatalf("Vertices() returned %d points, want 4", len(verts))
	}
	want := map[r2.Vec]bool{
		{X: 1, Y: 1}: true, {X: 3, Y: 1}: true,
		{X: 3, Y: 3}: true, {X: 1, Y: 3}: true,
	}
	for _, v := range verts {
		found := false
		for w := range want {
			if vecsEq(v, w) {
				found = true
				delete(want, w)
				break
			}
		}
		if !found {
			t.Errorf("unexpected vertex %v", v)
		}
	}
}

func TestAreaTransform(t *testing.T) {
	a := squareArea(t, 0, 0, 2)
	moved := a.Transform(Translation(r2.Vec{X: 10, Y: 0}))

	if got, want := moved.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("translated Size() = %v, want %v", got, want)
	}
	c, _ := moved.Centroid()
	if want := (r2.Vec{X: 11, Y: 1}); !vecsEq(c, want) {
		t.Errorf("translated Centroid() = %v, want %v", c, want)
	}
}

func TestAreaTransformReflection(t *testing.T) {
	a := squareArea(t, 1, 0, 2)
	// Mirror across the Y axis; orientation flips and boundaries are
	// re-reversed to keep the interior on the minus side.
	mirrored := a.Transform(Scaling(-1, 1))

	if got, want := mirrored.Size(), 4.0; !testPrec.Eq(got, want) {
		t.Errorf("mirrored Size() = %v, want %v", got, want)
	}
	if got := mirrored.Classify(r2.Vec{X: -2, Y: 1}); got != bsp.Inside {
		t.Errorf("mirrored Classify((-2,1)) = %v, want Inside", got)
	}
}

func TestAreaToTree(t *testing.T) {
	a := squareArea(t, 0, 0, 4)
	tree := a.ToTree()

	if got, want := tree.Size(), 16.0; !testPrec.Eq(got, want) {
		t.Errorf("tree Size() = %v, want %v", got, want)
	}
	if got := tree.Classify(r2.Vec{X: 2, Y: 2}); got != bsp.Inside {
		t.Errorf("tree Classify(center) = %v, want Inside", got)
	}
	if got := tree.Classify(r2.Vec{X: -1, Y: 2}); got != bsp.Outside {
		t.Errorf("tree Classify(outside) = %v, want Outside", got)
	}
}
