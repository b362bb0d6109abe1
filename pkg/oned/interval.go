package oned

import (
	"fmt"
	"math"

	"github.com/chazu/planecut/pkg/bsp"
	"github.com/chazu/planecut/pkg/precision"
)

// Interval is a convex region of the number line, possibly unbounded on
// either side. An interval with both bounds infinite is the full line.
// Intervals are immutable.
type Interval struct {
	min, max float64
	prec     precision.Context
}

// NewInterval returns the interval [min, max]. Either bound may be infinite
// in its own direction. The bounds must not be NaN and min must not exceed
// max beyond tolerance.
func NewInterval(min, max float64, prec precision.Context) (Interval, error) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return Interval{}, fmt.Errorf("oned: interval bounds must not be NaN, got [%v, %v]", min, max)
	}
	if math.IsInf(min, 1) || math.IsInf(max, -1) {
		return Interval{}, fmt.Errorf("oned: invalid interval bounds [%v, %v]", min, max)
	}
	if !math.IsInf(min, -1) && !math.IsInf(max, 1) && prec.Gt(min, max) {
		return Interval{}, fmt.Errorf("oned: interval min %v exceeds max %v", min, max)
	}
	return Interval{min: min, max: max, prec: prec}, nil
}

// FullInterval returns the interval covering the entire number line.
func FullInterval(prec precision.Context) Interval {
	return Interval{min: math.Inf(-1), max: math.Inf(1), prec: prec}
}

// MinAbove returns the interval [min, +inf).
func MinAbove(min float64, prec precision.Context) (Interval, error) {
	return NewInterval(min, math.Inf(1), prec)
}

// MaxBelow returns the interval (-inf, max].
func MaxBelow(max float64, prec precision.Context) (Interval, error) {
	return NewInterval(math.Inf(-1), max, prec)
}

// Min returns the lower bound, possibly -inf.
func (i Interval) Min() float64 { return i.min }

// Max returns the upper bound, possibly +inf.
func (i Interval) Max() float64 { return i.max }

// Precision returns the interval's precision context.
func (i Interval) Precision() precision.Context { return i.prec }

// HasMin reports whether the interval is bounded below.
func (i Interval) HasMin() bool { return !math.IsInf(i.min, -1) }

// HasMax reports whether the interval is bounded above.
func (i Interval) HasMax() bool { return !math.IsInf(i.max, 1) }

// IsFull reports whether the interval covers the whole line.
func (i Interval) IsFull() bool { return !i.HasMin() && !i.HasMax() }

// IsFinite reports whether both bounds are finite.
func (i Interval) IsFinite() bool { return i.HasMin() && i.HasMax() }

// Size returns the length of the interval, possibly infinite.
func (i Interval) Size() float64 { return i.max - i.min }

// Centroid returns the midpoint of a finite interval. The second return is
// false for unbounded intervals.
func (i Interval) Centroid() (float64, bool) {
	if !i.IsFinite() {
		return 0, false
	}
	return 0.5 * (i.min + i.max), true
}

// Classify locates x relative to the interval.
func (i Interval) Classify(x float64) bsp.Location {
	if i.HasMin() {
		switch i.prec.Compare(x, i.min) {
		case -1:
			return bsp.Outside
		case 0:
			return bsp.Boundary
		}
	}
	if i.HasMax() {
		switch i.prec.Compare(x, i.max) {
		case 1:
			return bsp.Outside
		case 0:
			return bsp.Boundary
		}
	}
	return bsp.Inside
}

// Contains reports whether x lies inside or on the boundary of the
// interval.
func (i Interval) Contains(x float64) bool {
	return i.Classify(x) != bsp.Outside
}

// Project returns the point of the interval closest to x.
func (i Interval) Project(x float64) float64 {
	return clamp(x, i.min, i.max)
}

// Split cuts the interval by an oriented point. A zero-length interval
// coincident with the splitter lies on neither side.
func (i Interval) Split(splitter OrientedPoint) bsp.Split[Interval] {
	x := splitter.location
	minCmp := i.prec.Compare(i.min, x)
	maxCmp := i.prec.Compare(i.max, x)

	if minCmp >= 0 && maxCmp <= 0 {
		// Entire interval within tolerance of the splitter location.
		return bsp.NewSplitNeither[Interval]()
	}

	if minCmp >= 0 {
		// Interval entirely at or above the splitter.
		if splitter.positiveFacing {
			return bsp.NewSplitPlus(i)
		}
		return bsp.NewSplitMinus(i)
	}
	if maxCmp <= 0 {
		if splitter.positiveFacing {
			return bsp.NewSplitMinus(i)
		}
		return bsp.NewSplitPlus(i)
	}

	below := Interval{min: i.min, max: x, prec: i.prec}
	above := Interval{min: x, max: i.max, prec: i.prec}

	if splitter.positiveFacing {
		return bsp.NewSplitBoth(below, above)
	}
	return bsp.NewSplitBoth(above, below)
}
