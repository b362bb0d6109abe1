package mesh

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/precision"
	"github.com/chazu/planecut/pkg/threed"
)

var testPrec = precision.MustNew(1e-10)

func cubeRegion(t *testing.T, size float64) *threed.Tree {
	t.Helper()
	v, err := threed.BoxVolume(r3.Vec{}, r3.Vec{X: size, Y: size, Z: size}, testPrec)
	if err != nil {
		t.Fatalf("BoxVolume: %v", err)
	}
	return v.ToTree()
}

func TestFromRegionCube(t *testing.T) {
	m, err := FromRegion(cubeRegion(t, 2))
	if err != nil {
		t.Fatalf("FromRegion: %v", err)
	}

	if m.IsEmpty() {
		t.Fatal("cube mesh is empty")
	}
	// Six square faces, two triangles each.
	if got, want := m.TriangleCount(), 12; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}
	if got, want := m.VertexCount(), 36; got != want {
		t.Errorf("VertexCount() = %d, want %d", got, want)
	}
	if got, want := len(m.Normals), len(m.Vertices); got != want {
		t.Errorf("len(Normals) = %d, want %d", got, want)
	}

	// Every vertex lies on the cube surface and every normal is a unit
	// axis vector.
	for i := 0; i < m.VertexCount(); i++ {
		x := float64(m.Vertices[i*3])
		y := float64(m.Vertices[i*3+1])
		z := float64(m.Vertices[i*3+2])
		onFace := x == 0 || x == 2 || y == 0 || y == 2 || z == 0 || z == 2
		if !onFace {
			t.Errorf("vertex %d (%v,%v,%v) is off the cube surface", i, x, y, z)
		}

		nx := float64(m.Normals[i*3])
		ny := float64(m.Normals[i*3+1])
		nz := float64(m.Normals[i*3+2])
		if norm := math.Sqrt(nx*nx + ny*ny + nz*nz); math.Abs(norm-1) > 1e-6 {
			t.Errorf("normal %d has length %v, want 1", i, norm)
		}
	}
}

func TestFromRegionEmptyTree(t *testing.T) {
	m, err := FromRegion(threed.EmptyTree())
	if err != nil {
		t.Fatalf("FromRegion: %v", err)
	}
	if !m.IsEmpty() {
		t.Error("mesh of an empty region is not empty")
	}
}

func TestFromRegionInfiniteRegionFails(t *testing.T) {
	half := threed.EmptyTree()
	p, err := threed.PlaneFromPointAndNormal(r3.Vec{}, r3.Vec{Z: 1}, testPrec)
	if err != nil {
		t.Fatalf("PlaneFromPointAndNormal: %v", err)
	}
	half.Insert(p.Span())

	if _, err := FromRegion(half); err == nil {
		t.Fatal("FromRegion on a half-space: want error, got nil")
	}
}

func TestRegionSDFEvaluate(t *testing.T) {
	s, err := NewRegionSDF(cubeRegion(t, 2))
	if err != nil {
		t.Fatalf("NewRegionSDF: %v", err)
	}

	tests := []struct {
		name string
		pt   v3.Vec
		want float64
	}{
		{"center", v3.Vec{X: 1, Y: 1, Z: 1}, -1},
		{"outside face", v3.Vec{X: 4, Y: 1, Z: 1}, 2},
		{"on surface", v3.Vec{X: 2, Y: 1, Z: 1}, 0},
		{"near face inside", v3.Vec{X: 1.5, Y: 1, Z: 1}, -0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Evaluate(tc.pt); !testPrec.Eq(got, tc.want) {
				t.Errorf("Evaluate(%v) = %v, want %v", tc.pt, got, tc.want)
			}
		})
	}
}

func TestRegionSDFBoundingBox(t *testing.T) {
	s, err := NewRegionSDF(cubeRegion(t, 2))
	if err != nil {
		t.Fatalf("NewRegionSDF: %v", err)
	}

	bb := s.BoundingBox()
	if bb.Min.X >= 0 || bb.Min.Y >= 0 || bb.Min.Z >= 0 {
		t.Errorf("BoundingBox min %v does not pad below the cube", bb.Min)
	}
	if bb.Max.X <= 2 || bb.Max.Y <= 2 || bb.Max.Z <= 2 {
		t.Errorf("BoundingBox max %v does not pad above the cube", bb.Max)
	}
}

func TestRegionSDFRejectsBoundaryless(t *testing.T) {
	if _, err := NewRegionSDF(threed.EmptyTree()); err == nil {
		t.Error("NewRegionSDF on an empty region: want error, got nil")
	}
	if _, err := NewRegionSDF(threed.FullTree()); err == nil {
		t.Error("NewRegionSDF on the full region: want error, got nil")
	}
}

func TestTessellateRegion(t *testing.T) {
	m, err := TessellateRegion(cubeRegion(t, 2), 16)
	if err != nil {
		t.Fatalf("TessellateRegion: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("tessellated cube mesh is empty")
	}
	if got, want := len(m.Indices)%3, 0; got != want {
		t.Errorf("len(Indices) %% 3 = %d, want 0", got)
	}

	// Marching cubes vertices stay within the padded bounding box.
	for i := 0; i < m.VertexCount(); i++ {
		for c := 0; c < 3; c++ {
			v := float64(m.Vertices[i*3+c])
			if v < -0.5 || v > 2.5 {
				t.Fatalf("vertex %d coordinate %v outside the expected bounds", i, v)
			}
		}
	}
}
