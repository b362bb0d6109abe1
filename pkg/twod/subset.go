package twod

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/oned"
	"github.com/chazu/planecut/pkg/precision"
)

func fullItv(prec precision.Context) oned.Interval {
	return oned.FullInterval(prec)
}

// LineSubset is a convex subset of a line: a segment, a ray, or the whole
// line, represented as an interval of abscissae along the line. Subsets are
// immutable.
type LineSubset struct {
	line Line
	itv  oned.Interval
}

// SegmentFromPoints returns the finite segment from start to end. The
// points must be distinct within tolerance.
func SegmentFromPoints(start, end r2.Vec, prec precision.Context) (*LineSubset, error) {
	line, err := LineFromPoints(start, end, prec)
	if err != nil {
		return nil, err
	}
	itv, err := oned.NewInterval(line.Abscissa(start), line.Abscissa(end), prec)
	if err != nil {
		return nil, err
	}
	return &LineSubset{line: line, itv: itv}, nil
}

// RayFromPoint returns the subset of the line from the given point toward
// the line's direction.
func RayFromPoint(line Line, start r2.Vec) (*LineSubset, error) {
	itv, err := oned.MinAbove(line.Abscissa(start), line.Precision())
	if err != nil {
		return nil, err
	}
	return &LineSubset{line: line, itv: itv}, nil
}

// SubsetFromInterval returns the subset of the line covering the given
// abscissa interval.
func SubsetFromInterval(line Line, itv oned.Interval) *LineSubset {
	return &LineSubset{line: line, itv: itv}
}

// Line returns the line the subset lies on.
func (s *LineSubset) Line() Line { return s.line }

// Hyperplane returns the line the subset lies on.
func (s *LineSubset) Hyperplane() Line { return s.line }

// Interval returns the abscissa interval of the subset.
func (s *LineSubset) Interval() oned.Interval { return s.itv }

// IsFull reports whether the subset covers the entire line.
func (s *LineSubset) IsFull() bool { return s.itv.IsFull() }

// IsFinite reports whether the subset is a finite segment.
func (s *LineSubset) IsFinite() bool { return s.itv.IsFinite() }

// Size returns the length of the subset, possibly infinite.
func (s *LineSubset) Size() float64 { return s.itv.Size() }

// StartPoint returns the start vertex of the subset. The second return is
// false when the subset extends to infinity in the reverse direction.
func (s *LineSubset) StartPoint() (r2.Vec, bool) {
	if !s.itv.HasMin() {
		return r2.Vec{}, false
	}
	return s.line.PointAt(s.itv.Min()), true
}

// EndPoint returns the end vertex of the subset. The second return is false
// when the subset extends to infinity in the forward direction.
func (s *LineSubset) EndPoint() (r2.Vec, bool) {
	if !s.itv.HasMax() {
		return r2.Vec{}, false
	}
	return s.line.PointAt(s.itv.Max()), true
}

// Centroid returns the midpoint of a finite segment. The second return is
// false for infinite subsets.
func (s *LineSubset) Centroid() (r2.Vec, bool) {
	mid, ok := s.itv.Centroid()
	if !ok {
		return r2.Vec{}, false
	}
	return s.line.PointAt(mid), true
}

// Contains reports whether pt lies on the subset within tolerance.
func (s *LineSubset) Contains(pt r2.Vec) bool {
	return s.line.Contains(pt) && s.itv.Contains(s.line.Abscissa(pt))
}

// ClosestPoint returns the point of the subset closest to pt.
func (s *LineSubset) ClosestPoint(pt r2.Vec) r2.Vec {
	return s.line.PointAt(s.itv.Project(s.line.Abscissa(pt)))
}

// Reverse returns the same subset with the line orientation flipped.
func (s *LineSubset) Reverse() *LineSubset {
	rev := s.line.Reverse()
	itv, err := oned.NewInterval(-s.itv.Max(), -s.itv.Min(), s.line.Precision())
	if err != nil {
		// The negated bounds of a valid interval always form a valid
		// interval.
		panic(fmt.Sprintf("twod: reverse interval: %v", err))
	}
	return &LineSubset{line: rev, itv: itv}
}

// Split cuts the subset by the splitter line. A subset collinear with the
// splitter lies on neither side.
func (s *LineSubset) Split(splitter Line) bsp.Split[*LineSubset] {
	prec := splitter.Precision()

	pt, ok := s.line.Intersection(splitter)
	if !ok {
		// Parallel lines: the whole subset lies on one side, or on the
		// splitter itself.
		switch bsp.Side(prec.Sign(splitter.Offset(s.line.PointAt(0)))) {
		case bsp.SideMinus:
			return bsp.NewSplitMinus(s)
		case bsp.SidePlus:
			return bsp.NewSplitPlus(s)
		default:
			return bsp.NewSplitNeither[*LineSubset]()
		}
	}

	t := s.line.Abscissa(pt)

	// Orient a 1D splitter at t: abscissae beyond t lie on the splitter's
	// plus side exactly when the line direction points into it.
	positiveFacing := r2.Dot(splitter.Normal(), s.line.Direction()) > 0
	op, err := oned.NewOrientedPoint(t, positiveFacing, s.line.Precision())
	if err != nil {
		panic(fmt.Sprintf("twod: split abscissa: %v", err))
	}

	sp := s.itv.Split(op)
	switch sp.Loc {
	case bsp.SplitNeither:
		return bsp.NewSplitNeither[*LineSubset]()
	case bsp.SplitMinus:
		return bsp.NewSplitMinus(s)
	case bsp.SplitPlus:
		return bsp.NewSplitPlus(s)
	default:
		return bsp.NewSplitBoth(
			&LineSubset{line: s.line, itv: sp.Minus},
			&LineSubset{line: s.line, itv: sp.Plus},
		)
	}
}

// Transform returns the subset mapped through the affine transform.
func (s *LineSubset) Transform(at AffineTransform) *LineSubset {
	prec := s.line.Precision()

	p0 := at.Apply(s.line.PointAt(0))
	p1 := at.Apply(s.line.PointAt(1))
	line, err := LineFromPoints(p0, p1, prec)
	if err != nil {
		panic(fmt.Sprintf("twod: transform collapses line: %v", err))
	}

	// Abscissae map affinely along the line; the image line is directed
	// from the image of abscissa 0 toward the image of abscissa 1, so the
	// mapping is increasing.
	t0 := line.Abscissa(p0)
	slope := line.Abscissa(p1) - t0

	lo, hi := s.itv.Min(), s.itv.Max()
	newLo, newHi := lo, hi
	if !math.IsInf(lo, 0) {
		newLo = t0 + slope*lo
	}
	if !math.IsInf(hi, 0) {
		newHi = t0 + slope*hi
	}
	itv, err := oned.NewInterval(newLo, newHi, prec)
	if err != nil {
		panic(fmt.Sprintf("twod: transform interval: %v", err))
	}
	return &LineSubset{line: line, itv: itv}
}

// String returns a readable description of the subset.
func (s *LineSubset) String() string {
	start, hasStart := s.StartPoint()
	end, hasEnd := s.EndPoint()
	switch {
	case hasStart && hasEnd:
		return fmt.Sprintf("Segment{%v -> %v}", start, end)
	case hasStart:
		return fmt.Sprintf("Ray{from %v along %v}", start, s.line.Direction())
	case hasEnd:
		return fmt.Sprintf("Ray{to %v along %v}", end, s.line.Direction())
	default:
		return fmt.Sprintf("Span{%s}", s.line)
	}
}
