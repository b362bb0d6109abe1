package oned

import (
	"math"
	"testing"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

var testPrec = precision.MustNew(1e-10)

func mustPoint(t *testing.T, loc float64, positiveFacing bool) OrientedPoint {
	t.Helper()
	p, err := NewOrientedPoint(loc, positiveFacing, testPrec)
	if err != nil {
		t.Fatalf("NewOrientedPoint(%v, %v): %v", loc, positiveFacing, err)
	}
	return p
}

func TestNewOrientedPointRejectsNonFinite(t *testing.T) {
	for _, loc := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewOrientedPoint(loc, true, testPrec); err == nil {
			t.Errorf("NewOrientedPoint(%v): want error, got nil", loc)
		}
	}
}

func TestOrientedPointClassify(t *testing.T) {
	tests := []struct {
		name           string
		loc            float64
		positiveFacing bool
		pt             float64
		want           bsp.Side
	}{
		{"beyond positive-facing", 2, true, 5, bsp.SidePlus},
		{"before positive-facing", 2, true, -1, bsp.SideMinus},
		{"on point", 2, true, 2, bsp.SideOn},
		{"within tolerance", 2, true, 2 + 1e-12, bsp.SideOn},
		{"beyond negative-facing", 2, false, 5, bsp.SideMinus},
		{"before negative-facing", 2, false, -1, bsp.SidePlus},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPoint(t, tc.loc, tc.positiveFacing)
			if got := p.Classify(tc.pt); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}
}

func TestOrientedPointOffset(t *testing.T) {
	p := mustPoint(t, 3, true)
	if got, want := p.Offset(5), 2.0; !testPrec.Eq(got, want) {
		t.Errorf("Offset(5) = %v, want %v", got, want)
	}

	r := p.Reverse()
	if got, want := r.Offset(5), -2.0; !testPrec.Eq(got, want) {
		t.Errorf("reversed Offset(5) = %v, want %v", got, want)
	}
	if p.SimilarOrientation(r) {
		t.Error("point and its reverse report similar orientation")
	}
	if !p.SimilarOrientation(mustPoint(t, -100, true)) {
		t.Error("same-facing points report dissimilar orientation")
	}
}

func TestOrientedPointProject(t *testing.T) {
	p := mustPoint(t, 3, true)
	if got := p.Project(99); got != 3 {
		t.Errorf("Project(99) = %v, want 3", got)
	}
}

func TestTreeInsertAndClassify(t *testing.T) {
	// The interval [1, 4]: a positive-facing boundary at 4 and a
	// negative-facing boundary at 1, both with the interior on the minus
	// side.
	tree := Empty()
	tree.Insert(mustPoint(t, 4, true).Span())
	tree.Insert(mustPoint(t, 1, false).Span())

	tests := []struct {
		pt   float64
		want bsp.Location
	}{
		{2.5, bsp.Inside},
		{0, bsp.Outside},
		{5, bsp.Outside},
		{1, bsp.Boundary},
		{4, bsp.Boundary},
	}
	for _, tc := range tests {
		if got := tree.Classify(tc.pt); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}
}

func TestFullAndEmptyTrees(t *testing.T) {
	if !Full().IsFull() {
		t.Error("Full().IsFull() = false")
	}
	if !Empty().IsEmpty() {
		t.Error("Empty().IsEmpty() = false")
	}
	if got := Full().Classify(123); got != bsp.Inside {
		t.Errorf("Full().Classify = %v, want Inside", got)
	}
}
