package bsp

// mergeOp selects the truth table applied when the simultaneous descent of a
// boolean operation reaches a leaf in either input tree.
type mergeOp int

const (
	opUnion mergeOp = iota
	opIntersection
	opDifference
	opXor
)

// Union replaces the receiver's region with the union of itself and other,
// mutating the receiver in place. The other tree is read but never mutated
// and shares no nodes with the result.
func (t *Tree[P, H, S]) Union(other *Tree[P, H, S]) {
	t.merge(other, opUnion)
}

// Intersection replaces the receiver's region with the intersection of
// itself and other.
func (t *Tree[P, H, S]) Intersection(other *Tree[P, H, S]) {
	t.merge(other, opIntersection)
}

// Difference replaces the receiver's region with the portion of itself not
// contained in other.
func (t *Tree[P, H, S]) Difference(other *Tree[P, H, S]) {
	t.merge(other, opDifference)
}

// Xor replaces the receiver's region with the symmetric difference of
// itself and other.
func (t *Tree[P, H, S]) Xor(other *Tree[P, H, S]) {
	t.merge(other, opXor)
}

func (t *Tree[P, H, S]) merge(other *Tree[P, H, S], op mergeOp) {
	t.root = t.mergeRecursive(t.root, other.root, op)
	t.root.parent = nil
	condenseNode(t.root)
	t.invalidate()
}

// mergeRecursive performs the simultaneous descent over two subtrees. When
// either side is a leaf the per-operation truth table resolves the result
// immediately, short-circuiting the recursion; otherwise the first tree's
// cut partitions the second tree and the two halves merge pairwise.
//
// The result is always built from fresh nodes owned by t; input subtrees are
// copied when they survive into the result.
func (t *Tree[P, H, S]) mergeRecursive(n1, n2 *Node[P, H, S], op mergeOp) *Node[P, H, S] {
	if !n1.internal || !n2.internal {
		return t.mergeLeaf(n1, n2, op)
	}

	minus2, plus2, dissolved := t.splitSubtree(n2, n1.cut)

	// Cuts of the second tree coincident with n1's cut dissolve during the
	// partition; their pieces lie on the result's cut hyperplane and fold
	// into its boundary bookkeeping.
	result := &Node[P, H, S]{tree: t, internal: true, cut: n1.cut}
	result.onCut = append(append([]S(nil), n1.onCut...), dissolved...)
	result.minus = t.mergeRecursive(n1.minus, minus2, op)
	result.plus = t.mergeRecursive(n1.plus, plus2, op)
	result.minus.parent = result
	result.plus.parent = result
	return result
}

// mergeLeaf resolves a merge step in which at least one input is a leaf.
func (t *Tree[P, H, S]) mergeLeaf(n1, n2 *Node[P, H, S], op mergeOp) *Node[P, H, S] {
	leaf, other, leafFirst := n1, n2, true
	if n1.internal {
		leaf, other, leafFirst = n2, n1, false
	}

	switch op {
	case opUnion:
		// Union with a full leaf is full; union with an empty leaf is the
		// other operand.
		if leaf.inside {
			return t.newLeaf(nil, true)
		}
		return copySubtree(other, t, nil, false)

	case opIntersection:
		if leaf.inside {
			return copySubtree(other, t, nil, false)
		}
		return t.newLeaf(nil, false)

	case opDifference:
		// a \ b: an empty a-leaf or a full b-leaf yields empty; a full
		// a-leaf yields the complement of b; an empty b-leaf yields a.
		if leafFirst {
			if !leaf.inside {
				return t.newLeaf(nil, false)
			}
			return copySubtree(other, t, nil, true)
		}
		if leaf.inside {
			return t.newLeaf(nil, false)
		}
		return copySubtree(other, t, nil, false)

	default: // opXor
		// Xor with a full leaf complements the other operand; xor with an
		// empty leaf is the identity.
		if leaf.inside {
			return copySubtree(other, t, nil, true)
		}
		return copySubtree(other, t, nil, false)
	}
}

// splitSubtree divides the subtree rooted at n by the hyperplane of the
// partitioner subset p, returning fresh subtrees holding the parts of n on
// the minus and plus sides, together with the cut and onCut pieces of any
// node that dissolved because its cut was coincident with the partitioner.
// The partitioner must already be trimmed to the region owned by n.
func (t *Tree[P, H, S]) splitSubtree(n *Node[P, H, S], p S) (*Node[P, H, S], *Node[P, H, S], []S) {
	h := p.Hyperplane()

	if !n.internal {
		return t.newLeaf(nil, n.inside), t.newLeaf(nil, n.inside), nil
	}

	hc := n.cut.Hyperplane()
	ps := p.Split(hc)

	if ps.Loc == SplitNeither {
		// The partitioner lies on this node's cut hyperplane: the two
		// children are exactly the two sides, modulo orientation. The cut
		// dissolves; its pieces are handed back to the caller.
		minusHalf := copySubtree(n.minus, t, nil, false)
		plusHalf := copySubtree(n.plus, t, nil, false)
		dissolved := append(append([]S(nil), n.onCut...), n.cut)
		if h.SimilarOrientation(hc) {
			return minusHalf, plusHalf, dissolved
		}
		return plusHalf, minusHalf, dissolved
	}

	cs := n.cut.Split(h)

	switch ps.Loc {
	case SplitMinus:
		// The partitioner lies inside the minus child's region; the cut and
		// the whole plus child sit on a single side of the partitioner.
		mm, mp, dissolved := t.splitSubtree(n.minus, p)
		if cs.Loc == SplitPlus {
			plusHalf := t.join(n.cut, n.onCut, mp, copySubtree(n.plus, t, nil, false))
			return mm, plusHalf, dissolved
		}
		minusHalf := t.join(n.cut, n.onCut, mm, copySubtree(n.plus, t, nil, false))
		return minusHalf, mp, dissolved

	case SplitPlus:
		pm, pp, dissolved := t.splitSubtree(n.plus, p)
		if cs.Loc == SplitPlus {
			plusHalf := t.join(n.cut, n.onCut, copySubtree(n.minus, t, nil, false), pp)
			return pm, plusHalf, dissolved
		}
		minusHalf := t.join(n.cut, n.onCut, copySubtree(n.minus, t, nil, false), pm)
		return minusHalf, pp, dissolved

	default: // SplitBoth
		mm, mp, dm := t.splitSubtree(n.minus, ps.Minus)
		pm, pp, dp := t.splitSubtree(n.plus, ps.Plus)
		dissolved := append(dm, dp...)

		minusCut, plusCut := n.cut, n.cut
		if cs.Loc == SplitBoth {
			minusCut, plusCut = cs.Minus, cs.Plus
		}
		minusOn, plusOn := splitOnCut(n.onCut, h)
		return t.join(minusCut, minusOn, mm, pm), t.join(plusCut, plusOn, mp, pp), dissolved
	}
}

// splitOnCut distributes onCut bookkeeping pieces across the partitioner.
func splitOnCut[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](onCut []S, h H) (minus, plus []S) {
	for _, sub := range onCut {
		sp := sub.Split(h)
		switch sp.Loc {
		case SplitMinus:
			minus = append(minus, sub)
		case SplitPlus:
			plus = append(plus, sub)
		case SplitBoth:
			minus = append(minus, sp.Minus)
			plus = append(plus, sp.Plus)
		}
	}
	return minus, plus
}

// join builds a fresh internal node from a cut and two subtrees.
func (t *Tree[P, H, S]) join(cut S, onCut []S, minus, plus *Node[P, H, S]) *Node[P, H, S] {
	n := &Node[P, H, S]{tree: t, internal: true, cut: cut}
	n.onCut = append([]S(nil), onCut...)
	n.minus = minus
	n.plus = plus
	minus.parent = n
	plus.parent = n
	minus.tree = t
	plus.tree = t
	return n
}

// Split divides the region into the parts on the minus and plus sides of
// the hyperplane, returning two new trees. The receiver is not modified.
// The split location reports which sides are non-empty.
func (t *Tree[P, H, S]) Split(h H) Split[*Tree[P, H, S]] {
	span := h.Span()

	minusTree := &Tree[P, H, S]{}
	plusTree := &Tree[P, H, S]{}

	minusHalf, plusHalf, _ := t.splitSubtree(t.root, span)

	minusTree.root = minusTree.join(span, nil, retree(minusHalf, minusTree), minusTree.newLeaf(nil, false))
	plusTree.root = plusTree.join(span, nil, plusTree.newLeaf(nil, false), retree(plusHalf, plusTree))
	minusTree.Condense()
	plusTree.Condense()

	minusEmpty := minusTree.IsEmpty()
	plusEmpty := plusTree.IsEmpty()
	switch {
	case minusEmpty && plusEmpty:
		return NewSplitNeither[*Tree[P, H, S]]()
	case plusEmpty:
		return NewSplitMinus(minusTree)
	case minusEmpty:
		return NewSplitPlus(plusTree)
	default:
		return NewSplitBoth(minusTree, plusTree)
	}
}

// retree reassigns ownership of a subtree to the destination tree.
func retree[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](
	n *Node[P, H, S], dst *Tree[P, H, S]) *Node[P, H, S] {

	n.tree = dst
	if n.internal {
		retree(n.minus, dst)
		retree(n.plus, dst)
	}
	return n
}
