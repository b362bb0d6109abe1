package bsp

// CutBoundary describes the region-boundary portions of one internal node's
// cut. InsideFacing pieces have the region interior on their minus side and
// keep the cut's own orientation; OutsideFacing pieces have the interior on
// their plus side. Portions adjacent to leaves of equal attribute on both
// sides are purely structural and appear in neither list.
type CutBoundary[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]] struct {
	InsideFacing  []S
	OutsideFacing []S
}

// cutBoundary computes the boundary portions of the node's cut by
// characterizing the cut against both child subtrees. A fragment is
// inside-facing when the minus child classifies it inside and the plus
// child classifies it outside; the symmetric case is outside-facing.
func cutBoundary[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](n *Node[P, H, S]) CutBoundary[P, H, S] {
	var b CutBoundary[P, H, S]

	minusInside, minusOutside := characterize(n.cut, n.minus)

	for _, frag := range minusInside {
		_, plusOutside := characterize(frag, n.plus)
		b.InsideFacing = append(b.InsideFacing, plusOutside...)
	}
	for _, frag := range minusOutside {
		plusInside, _ := characterize(frag, n.plus)
		b.OutsideFacing = append(b.OutsideFacing, plusInside...)
	}
	return b
}

// characterize splits sub against the subtree rooted at n, partitioning it
// into the fragments lying in inside leaves and those lying in outside
// leaves. Fragments coincident with a deeper cut hyperplane descend the
// minus child.
func characterize[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](
	sub S, n *Node[P, H, S]) (inside, outside []S) {

	if !n.internal {
		if n.inside {
			return []S{sub}, nil
		}
		return nil, []S{sub}
	}
	sp := sub.Split(n.cut.Hyperplane())
	switch sp.Loc {
	case SplitNeither, SplitMinus:
		return characterize(sub, n.minus)
	case SplitPlus:
		return characterize(sub, n.plus)
	default: // SplitBoth
		mi, mo := characterize(sp.Minus, n.minus)
		pi, po := characterize(sp.Plus, n.plus)
		return append(mi, pi...), append(mo, po...)
	}
}

// Boundaries returns every boundary piece of the region, each oriented so
// that its hyperplane's minus side faces the region interior. The pieces
// are unordered; per-dimension connectors assemble them into paths.
func (t *Tree[P, H, S]) Boundaries() []S {
	var out []S
	t.WalkInternal(func(n *Node[P, H, S]) bool {
		b := cutBoundary(n)
		out = append(out, b.InsideFacing...)
		for _, sub := range b.OutsideFacing {
			out = append(out, sub.Reverse())
		}
		return true
	})
	return out
}

// VisitCutBoundaries walks every internal node and hands the visitor the
// node together with its computed cut boundary. The walk stops early when
// the visitor returns false. Callers that need traversal order control,
// such as near-to-far linecasting, walk the tree themselves via the node
// accessors and call NodeCutBoundary per node.
func (t *Tree[P, H, S]) VisitCutBoundaries(visit func(n *Node[P, H, S], b CutBoundary[P, H, S]) bool) {
	t.WalkInternal(func(n *Node[P, H, S]) bool {
		return visit(n, cutBoundary(n))
	})
}

// NodeCutBoundary computes the cut boundary of a single internal node. The
// result is recomputed on each call; callers cache it against the tree
// generation when needed.
func NodeCutBoundary[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](n *Node[P, H, S]) CutBoundary[P, H, S] {
	return cutBoundary(n)
}
