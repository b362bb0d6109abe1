package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/planecut/pkg/threed"
)

// defaultCells controls marching cubes tessellation resolution.
const defaultCells = 200

// Tessellate converts a signed distance field to a triangle mesh using
// marching cubes with the given cell resolution; cells values below one
// fall back to the default. Unlike FromRegion the result approximates the
// surface, but it handles any SDF, not just exact region boundaries.
func Tessellate(sdf3 sdf.SDF3, cells int) *Mesh {
	if cells < 1 {
		cells = defaultCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}

// TessellateRegion renders a finite region through the marching cubes
// pipeline. Most callers want FromRegion, which is exact; this entry point
// exists for regions that feed into further SDF composition before
// rendering.
func TessellateRegion(t *threed.Tree, cells int) (*Mesh, error) {
	s, err := NewRegionSDF(t)
	if err != nil {
		return nil, err
	}
	return Tessellate(s, cells), nil
}
