package bsp

import "errors"

// PartitionedTreeBuilder builds a region tree from structural partitions
// followed by region boundaries. Inserting partitions first bounds the
// depth of the final tree when the boundary pieces would otherwise produce
// a degenerate, list-like tree (for example long runs of nearly parallel
// boundaries).
//
// All partitions must be inserted before the first boundary. Build
// propagates region membership across partition cuts whose subtree received
// no boundary, condenses the tree and returns it; the builder must not be
// used afterwards.
type PartitionedTreeBuilder[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]] struct {
	tree *Tree[P, H, S]

	partitions map[*Node[P, H, S]]struct{}
	boundaries map[*Node[P, H, S]]struct{}

	boundaryInserted bool
	built            bool
}

// ErrPartitionAfterBoundary is returned when a partition is inserted after
// a boundary has already been inserted.
var ErrPartitionAfterBoundary = errors.New("bsp: partition inserted after boundary")

// ErrBuilderSpent is returned when a builder is used after Build.
var ErrBuilderSpent = errors.New("bsp: builder already built")

// NewPartitionedTreeBuilder returns a builder over an initially empty
// region.
func NewPartitionedTreeBuilder[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]]() *PartitionedTreeBuilder[P, H, S] {
	return &PartitionedTreeBuilder[P, H, S]{
		tree:       NewTree[P, H, S](false),
		partitions: make(map[*Node[P, H, S]]struct{}),
		boundaries: make(map[*Node[P, H, S]]struct{}),
	}
}

// InsertPartition inserts a structural cut. Partition cuts carry no region
// boundary themselves; children inherit the region attribute of the leaf
// they split.
func (b *PartitionedTreeBuilder[P, H, S]) InsertPartition(sub S) error {
	if b.built {
		return ErrBuilderSpent
	}
	if b.boundaryInserted {
		return ErrPartitionAfterBoundary
	}
	b.insertPartitionRecursive(b.tree.root, sub)
	b.tree.invalidate()
	return nil
}

func (b *PartitionedTreeBuilder[P, H, S]) insertPartitionRecursive(n *Node[P, H, S], sub S) {
	if !n.internal {
		trimmed, ok := b.tree.trimToRegion(n, sub.Hyperplane().Span())
		if !ok {
			return
		}
		b.tree.setCut(n, trimmed, n.inside, n.inside)
		b.partitions[n] = struct{}{}
		return
	}
	sp := sub.Split(n.cut.Hyperplane())
	switch sp.Loc {
	case SplitNeither:
		// Duplicate partition; the existing cut already covers it.
	case SplitMinus:
		b.insertPartitionRecursive(n.minus, sub)
	case SplitPlus:
		b.insertPartitionRecursive(n.plus, sub)
	case SplitBoth:
		b.insertPartitionRecursive(n.minus, sp.Minus)
		b.insertPartitionRecursive(n.plus, sp.Plus)
	}
}

// InsertBoundary inserts a region boundary piece, oriented with its minus
// side toward the region interior.
func (b *PartitionedTreeBuilder[P, H, S]) InsertBoundary(sub S) error {
	if b.built {
		return ErrBuilderSpent
	}
	b.boundaryInserted = true
	b.insertBoundaryRecursive(b.tree.root, sub)
	b.tree.invalidate()
	return nil
}

func (b *PartitionedTreeBuilder[P, H, S]) insertBoundaryRecursive(n *Node[P, H, S], sub S) {
	if !n.internal {
		trimmed, ok := b.tree.trimToRegion(n, sub.Hyperplane().Span())
		if !ok {
			return
		}
		b.tree.setCut(n, trimmed, true, false)
		b.boundaries[n] = struct{}{}
		return
	}
	sp := sub.Split(n.cut.Hyperplane())
	switch sp.Loc {
	case SplitNeither:
		n.onCut = append(n.onCut, sub)
		b.boundaries[n] = struct{}{}
	case SplitMinus:
		b.insertBoundaryRecursive(n.minus, sub)
	case SplitPlus:
		b.insertBoundaryRecursive(n.plus, sub)
	case SplitBoth:
		b.insertBoundaryRecursive(n.minus, sp.Minus)
		b.insertBoundaryRecursive(n.plus, sp.Plus)
	}
}

// Build finalizes and returns the region tree. Region membership is
// propagated across partition cuts into subtrees that received no boundary
// (membership is continuous across a purely structural cut), and the tree
// is condensed.
func (b *PartitionedTreeBuilder[P, H, S]) Build() (*Tree[P, H, S], error) {
	if b.built {
		return nil, ErrBuilderSpent
	}
	b.built = true
	b.propagate(b.tree.root)
	b.tree.Condense()
	return b.tree, nil
}

// propagate fixes the attributes of boundary-free subtrees hanging off
// partition cuts, post-order so deeper partitions resolve first.
func (b *PartitionedTreeBuilder[P, H, S]) propagate(n *Node[P, H, S]) {
	if !n.internal {
		return
	}
	b.propagate(n.minus)
	b.propagate(n.plus)

	if _, isPartition := b.partitions[n]; !isPartition {
		return
	}

	minusHas := b.subtreeHasBoundary(n.minus)
	plusHas := b.subtreeHasBoundary(n.plus)

	switch {
	case minusHas && !plusHas:
		b.paint(n.plus, b.membershipAcross(n, n.minus))
	case plusHas && !minusHas:
		b.paint(n.minus, b.membershipAcross(n, n.plus))
	}
}

func (b *PartitionedTreeBuilder[P, H, S]) subtreeHasBoundary(n *Node[P, H, S]) bool {
	if _, ok := b.boundaries[n]; ok {
		return true
	}
	if !n.internal {
		return false
	}
	return b.subtreeHasBoundary(n.minus) || b.subtreeHasBoundary(n.plus)
}

// membershipAcross determines the region membership immediately adjacent
// to the partition cut of n on the side of the given child. Boundary pieces
// lying exactly on the cut take priority: their orientation alone decides
// the membership of the far side.
func (b *PartitionedTreeBuilder[P, H, S]) membershipAcross(n, child *Node[P, H, S]) bool {
	if len(n.onCut) > 0 {
		// A boundary coincides with the partition cut. Its minus side is
		// inside; the far side membership follows from whether the far
		// side is the boundary's minus or plus side.
		piece := n.onCut[0]
		sameOrientation := piece.Hyperplane().SimilarOrientation(n.cut.Hyperplane())
		farIsPlus := child == n.minus
		if sameOrientation {
			return !farIsPlus
		}
		return farIsPlus
	}
	inside, _ := characterize(n.cut, child)
	return len(inside) > 0
}

func (b *PartitionedTreeBuilder[P, H, S]) paint(n *Node[P, H, S], inside bool) {
	if !n.internal {
		n.inside = inside
		return
	}
	b.paint(n.minus, inside)
	b.paint(n.plus, inside)
}
