package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/threed"
)

// Compile-time interface check.
var _ sdf.SDF3 = (*RegionSDF)(nil)

// boundsMargin pads the bounding box so marching cubes samples outside
// cells around the region surface.
const boundsMargin = 0.1

// RegionSDF adapts a BSP region tree to the sdf.SDF3 interface, exposing
// its exact signed distance field to the sdfx rendering pipeline. The
// wrapped tree must not be mutated while the adapter is in use.
type RegionSDF struct {
	tree *threed.Tree
	bb   sdf.Box3
}

// NewRegionSDF wraps a finite, non-empty region. The bounding box is
// derived from the boundary facet vertices with a proportional margin.
func NewRegionSDF(t *threed.Tree) (*RegionSDF, error) {
	bounds := t.Boundaries()
	if len(bounds) == 0 {
		return nil, fmt.Errorf("mesh: region has no boundary to tessellate")
	}

	first := true
	var min, max r3.Vec
	for _, facet := range bounds {
		verts := facet.Vertices()
		if verts == nil {
			return nil, fmt.Errorf("mesh: region has an unbounded boundary facet (%s)", facet)
		}
		for _, v := range verts {
			if first {
				min, max = v, v
				first = false
				continue
			}
			min = r3.Vec{X: minf(min.X, v.X), Y: minf(min.Y, v.Y), Z: minf(min.Z, v.Z)}
			max = r3.Vec{X: maxf(max.X, v.X), Y: maxf(max.Y, v.Y), Z: maxf(max.Z, v.Z)}
		}
	}

	span := r3.Sub(max, min)
	margin := r3.Scale(boundsMargin, span)
	min = r3.Sub(min, margin)
	max = r3.Add(max, margin)

	return &RegionSDF{
		tree: t,
		bb: sdf.Box3{
			Min: v3.Vec{X: min.X, Y: min.Y, Z: min.Z},
			Max: v3.Vec{X: max.X, Y: max.Y, Z: max.Z},
		},
	}, nil
}

// Evaluate returns the signed distance from p to the region boundary,
// negative inside the region.
func (s *RegionSDF) Evaluate(p v3.Vec) float64 {
	pt := r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	closest, ok := s.tree.Project(pt)
	if !ok {
		return 0
	}
	dist := r3.Norm(r3.Sub(closest, pt))
	switch s.tree.Classify(pt) {
	case bsp.Inside:
		return -dist
	case bsp.Boundary:
		return 0
	default:
		return dist
	}
}

// BoundingBox returns the padded axis-aligned bounding box of the region.
func (s *RegionSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
