// Package bsp implements a dimension-generic binary space partitioning (BSP)
// region engine. A region of Euclidean space is represented as a binary tree
// of half-space cuts: internal nodes hold a hyperplane-bounded convex subset
// partitioning their region into a minus and a plus child, leaves hold an
// inside/outside attribute. The engine provides boundary insertion, the
// recursive tree-vs-tree boolean merge (union, intersection, difference,
// xor), splitting by a hyperplane, point classification, boundary
// characterization, and a partitioned-tree builder.
//
// The engine is parameterized over a point type P, a hyperplane type H, and
// a hyperplane-subset type S via the Hyperplane and HyperplaneSubset
// capability contracts. Concrete geometry (vectors, lines, planes, embedded
// subspace regions) lives in the per-dimension packages oned, twod and
// threed; floating-point tolerance decisions are owned entirely by the
// precision contexts embedded in those types.
//
// Trees are mutable and not safe for concurrent use. Structural mutation
// bumps a generation counter that callers use to gate lazily computed
// derived data such as boundaries and sizes.
package bsp

// Side identifies where a point lies relative to an oriented hyperplane.
type Side int

const (
	// SideMinus is the half-space opposite the hyperplane orientation.
	// Region boundaries are oriented with their minus side facing the
	// region interior.
	SideMinus Side = -1
	// SideOn means the point lies on the hyperplane within tolerance.
	SideOn Side = 0
	// SidePlus is the half-space the hyperplane orientation points into.
	SidePlus Side = 1
)

// String returns a readable name for the side.
func (s Side) String() string {
	switch s {
	case SideMinus:
		return "minus"
	case SidePlus:
		return "plus"
	default:
		return "on"
	}
}

// Location classifies a point against a region.
type Location int

const (
	// Outside means the point lies strictly outside the region.
	Outside Location = iota
	// Inside means the point lies strictly inside the region.
	Inside
	// Boundary means the point lies on the region boundary within
	// tolerance.
	Boundary
)

// String returns a readable name for the location.
func (l Location) String() string {
	switch l {
	case Inside:
		return "inside"
	case Boundary:
		return "boundary"
	default:
		return "outside"
	}
}

// SplitLocation describes how an object relates to a splitting hyperplane.
type SplitLocation int

const (
	// SplitNeither means the object lies entirely on the splitting
	// hyperplane itself and contributes to neither side.
	SplitNeither SplitLocation = iota
	// SplitMinus means the object lies entirely on the minus side.
	SplitMinus
	// SplitPlus means the object lies entirely on the plus side.
	SplitPlus
	// SplitBoth means the object straddles the hyperplane and was divided
	// into a non-empty piece on each side.
	SplitBoth
)

// Split is the outcome of cutting an object by a hyperplane. The Minus and
// Plus fields are meaningful only where Loc says a side is populated; absent
// sides hold the zero value.
type Split[T any] struct {
	Minus T
	Plus  T
	Loc   SplitLocation
}

// NewSplitMinus returns a split with the whole object on the minus side.
func NewSplitMinus[T any](minus T) Split[T] {
	return Split[T]{Minus: minus, Loc: SplitMinus}
}

// NewSplitPlus returns a split with the whole object on the plus side.
func NewSplitPlus[T any](plus T) Split[T] {
	return Split[T]{Plus: plus, Loc: SplitPlus}
}

// NewSplitBoth returns a split with a non-empty piece on each side.
func NewSplitBoth[T any](minus, plus T) Split[T] {
	return Split[T]{Minus: minus, Plus: plus, Loc: SplitBoth}
}

// NewSplitNeither returns the degenerate split of an object lying exactly on
// the splitting hyperplane.
func NewSplitNeither[T any]() Split[T] {
	return Split[T]{Loc: SplitNeither}
}

// Hyperplane is the capability contract for an oriented affine subspace of
// codimension one: a point in 1D, a line in 2D, a plane in 3D. The H type
// parameter is the implementing type itself and S is its subset type, so
// implementations return their own concrete types.
//
// Implementations are immutable and embed their own precision context; all
// tolerance decisions happen behind Classify.
type Hyperplane[P, H, S any] interface {
	// Offset returns the signed distance from the hyperplane to the point.
	// Positive offsets lie on the plus side.
	Offset(pt P) float64

	// Classify returns the side of the hyperplane the point lies on,
	// returning SideOn whenever the precision context judges the offset to
	// be within tolerance of zero.
	Classify(pt P) Side

	// Contains reports whether the point lies on the hyperplane within
	// tolerance.
	Contains(pt P) bool

	// Project returns the orthogonal projection of the point onto the
	// hyperplane.
	Project(pt P) P

	// Reverse returns a hyperplane with the same point set and opposite
	// orientation.
	Reverse() H

	// SimilarOrientation reports whether the other hyperplane points into
	// the same half of space as this one.
	SimilarOrientation(other H) bool

	// Span returns the subset covering the entire hyperplane.
	Span() S
}

// HyperplaneSubset is the capability contract for a convex, possibly
// unbounded region lying within a hyperplane. Implementations are immutable;
// Split never mutates its receiver.
type HyperplaneSubset[P, H, S any] interface {
	// Hyperplane returns the hyperplane this subset lies on.
	Hyperplane() H

	// Split cuts the subset by the given hyperplane. If the subset lies
	// entirely on one side, that side of the split holds the subset itself;
	// if it straddles, both sides hold newly constructed pieces; if it lies
	// exactly on the splitter, the location is SplitNeither.
	Split(splitter H) Split[S]

	// Reverse returns the same subset with its hyperplane orientation
	// flipped.
	Reverse() S
}
