// Package mesh converts BSP region trees into triangle meshes suitable for
// rendering or export, and bridges regions into the sdfx signed-distance
// toolchain for marching-cubes tessellation.
package mesh

import (
	"fmt"

	"github.com/chazu/planecut/pkg/threed"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FromRegion triangulates the boundary of a finite region exactly, fanning
// each boundary facet from its first vertex. Facet normals become the
// per-vertex normals, so faces stay flat-shaded. Regions with unbounded
// boundary facets cannot be meshed.
func FromRegion(t *threed.Tree) (*Mesh, error) {
	m := &Mesh{}
	for _, facet := range t.Boundaries() {
		verts := facet.Vertices()
		if verts == nil {
			return nil, fmt.Errorf("mesh: region has an unbounded boundary facet (%s)", facet)
		}
		n := facet.Plane().Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for i := 1; i < len(verts)-1; i++ {
			for _, v := range [3]int{0, i, i + 1} {
				p := verts[v]
				idx := uint32(len(m.Vertices) / 3)
				m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
				m.Normals = append(m.Normals, nx, ny, nz)
				m.Indices = append(m.Indices, idx)
			}
		}
	}
	return m, nil
}
