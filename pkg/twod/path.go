package twod

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/oned"
	"github.com/chazu/planecut/pkg/precision"
)

// LinePath is a connected sequence of line subsets, each starting where the
// previous one ends. A path may be closed, forming a loop, or open when it
// starts or ends with an infinite piece or simply stops. Paths are
// immutable.
type LinePath struct {
	subsets []*LineSubset
	closed  bool
}

// PathFromSubsets wraps an already-connected sequence of subsets into a
// path. Connectivity is the caller's responsibility; each subset's start
// must coincide with the previous subset's end within tolerance.
func PathFromSubsets(subsets []*LineSubset, closed bool) *LinePath {
	return &LinePath{subsets: append([]*LineSubset(nil), subsets...), closed: closed}
}

// PathFromVertexLoop returns the closed path visiting the vertices in
// order and returning to the first. At least three vertices are required.
func PathFromVertexLoop(vertices []r2.Vec, prec precision.Context) (*LinePath, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("twod: closed path requires at least 3 vertices, got %d", len(vertices))
	}
	b := NewPathBuilder(prec)
	for _, v := range vertices {
		if err := b.Append(v); err != nil {
			return nil, err
		}
	}
	return b.BuildClosed()
}

// Subsets returns the subsets making up the path. The returned slice must
// not be modified.
func (p *LinePath) Subsets() []*LineSubset { return p.subsets }

// IsClosed reports whether the path forms a loop.
func (p *LinePath) IsClosed() bool { return p.closed }

// IsFinite reports whether every piece of the path is a finite segment.
func (p *LinePath) IsFinite() bool {
	for _, s := range p.subsets {
		if !s.IsFinite() {
			return false
		}
	}
	return true
}

// Length returns the total length of the path, possibly infinite.
func (p *LinePath) Length() float64 {
	var total float64
	for _, s := range p.subsets {
		total += s.Size()
	}
	return total
}

// Vertices returns the vertices of the path in order. A closed path of n
// segments yields n+1 vertices with the first repeated last; infinite end
// pieces contribute only their finite vertex.
func (p *LinePath) Vertices() []r2.Vec {
	if len(p.subsets) == 0 {
		return nil
	}
	verts := make([]r2.Vec, 0, len(p.subsets)+1)
	if start, ok := p.subsets[0].StartPoint(); ok {
		verts = append(verts, start)
	}
	for _, s := range p.subsets {
		if end, ok := s.EndPoint(); ok {
			verts = append(verts, end)
		}
	}
	return verts
}

// ToTree returns the BSP region enclosed by a closed path.
func (p *LinePath) ToTree() (*Tree, error) {
	if !p.closed {
		return nil, fmt.Errorf("twod: cannot build a region from an open path")
	}
	return TreeFromBoundaries(p.subsets), nil
}

// String returns a readable description of the path.
func (p *LinePath) String() string {
	kind := "open"
	if p.closed {
		kind = "closed"
	}
	return fmt.Sprintf("LinePath{%s, %d subsets}", kind, len(p.subsets))
}

// PathBuilder assembles a line path vertex by vertex. Appended vertices are
// joined by finite segments; collinear consecutive segments are merged into
// one.
type PathBuilder struct {
	prec     precision.Context
	vertices []r2.Vec
	subsets  []*LineSubset
}

// NewPathBuilder returns an empty builder using the given precision
// context.
func NewPathBuilder(prec precision.Context) *PathBuilder {
	return &PathBuilder{prec: prec}
}

// Append adds a vertex to the path. Appending a vertex equal to the
// previous one within tolerance is an error.
func (b *PathBuilder) Append(v r2.Vec) error {
	if n := len(b.vertices); n > 0 {
		prev := b.vertices[n-1]
		if pointsEq(prev, v, b.prec) {
			return fmt.Errorf("twod: path vertex %v repeats the previous vertex", v)
		}
		seg, err := SegmentFromPoints(prev, v, b.prec)
		if err != nil {
			return err
		}
		b.appendSubset(seg)
	}
	b.vertices = append(b.vertices, v)
	return nil
}

// appendSubset adds a segment, merging it with the previous one when both
// lie on the same oriented line.
func (b *PathBuilder) appendSubset(seg *LineSubset) {
	if n := len(b.subsets); n > 0 {
		prev := b.subsets[n-1]
		if prev.IsFinite() && prev.Line().Eq(seg.Line()) {
			if merged, ok := mergeCollinear(prev, seg); ok {
				b.subsets[n-1] = merged
				return
			}
		}
	}
	b.subsets = append(b.subsets, seg)
}

// Build returns the open path accumulated so far. At least two vertices are
// required.
func (b *PathBuilder) Build() (*LinePath, error) {
	if len(b.vertices) < 2 {
		return nil, fmt.Errorf("twod: path requires at least 2 vertices, got %d", len(b.vertices))
	}
	return &LinePath{subsets: append([]*LineSubset(nil), b.subsets...)}, nil
}

// BuildClosed appends the segment from the last vertex back to the first
// and returns the closed path. At least three vertices are required.
func (b *PathBuilder) BuildClosed() (*LinePath, error) {
	if len(b.vertices) < 3 {
		return nil, fmt.Errorf("twod: closed path requires at least 3 vertices, got %d", len(b.vertices))
	}
	first, last := b.vertices[0], b.vertices[len(b.vertices)-1]
	subsets := append([]*LineSubset(nil), b.subsets...)
	if !pointsEq(first, last, b.prec) {
		seg, err := SegmentFromPoints(last, first, b.prec)
		if err != nil {
			return nil, err
		}
		subsets = append(subsets, seg)
	}
	return &LinePath{subsets: subsets, closed: true}, nil
}

// mergeCollinear joins two finite subsets on the same oriented line when
// the first ends where the second starts.
func mergeCollinear(a, c *LineSubset) (*LineSubset, bool) {
	aEnd, ok1 := a.EndPoint()
	cStart, ok2 := c.StartPoint()
	if !ok1 || !ok2 || !pointsEq(aEnd, cStart, a.Line().Precision()) {
		return nil, false
	}
	// Equal oriented lines share abscissae, so the merged interval spans
	// from a's minimum to c's maximum.
	itv, err := oned.NewInterval(a.Interval().Min(), c.Interval().Max(), a.Line().Precision())
	if err != nil {
		return nil, false
	}
	return &LineSubset{line: a.Line(), itv: itv}, true
}
