package bsp

// Tree is a BSP-tree-backed region of space. A new tree is a single leaf
// covering all of space, either fully inside or fully outside the region.
//
// Trees exclusively own their nodes; boolean operations always build fresh
// result nodes and never share structure with their operands. Trees are not
// safe for concurrent use.
type Tree[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]] struct {
	root       *Node[P, H, S]
	generation uint64
}

// Node is a single BSP tree node: either an internal node holding a cut
// subset and two children, or a leaf holding an inside/outside attribute.
type Node[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]] struct {
	tree   *Tree[P, H, S]
	parent *Node[P, H, S]

	internal bool
	cut      S
	onCut    []S
	minus    *Node[P, H, S]
	plus     *Node[P, H, S]

	// inside is the leaf attribute; meaningful only when internal is false.
	inside bool
}

// NewTree returns a single-leaf tree covering all of space with the given
// region membership.
func NewTree[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](inside bool) *Tree[P, H, S] {
	t := &Tree[P, H, S]{}
	t.root = &Node[P, H, S]{tree: t, inside: inside}
	return t
}

// Root returns the root node of the tree.
func (t *Tree[P, H, S]) Root() *Node[P, H, S] { return t.root }

// Generation returns a counter that increases on every structural mutation
// of the tree. Callers use it to gate lazily computed derived data.
func (t *Tree[P, H, S]) Generation() uint64 { return t.generation }

// invalidate records a structural mutation.
func (t *Tree[P, H, S]) invalidate() { t.generation++ }

// Count returns the total number of nodes in the tree.
func (t *Tree[P, H, S]) Count() int { return t.root.count() }

// Height returns the height of the tree; a single leaf has height zero.
func (t *Tree[P, H, S]) Height() int { return t.root.height() }

// IsFull reports whether every leaf of the tree is inside the region.
func (t *Tree[P, H, S]) IsFull() bool { return !t.root.anyLeaf(false) }

// IsEmpty reports whether every leaf of the tree is outside the region.
func (t *Tree[P, H, S]) IsEmpty() bool { return !t.root.anyLeaf(true) }

// IsLeaf reports whether the node is a leaf.
func (n *Node[P, H, S]) IsLeaf() bool { return !n.internal }

// IsInside reports the leaf attribute. It is meaningful only for leaves.
func (n *Node[P, H, S]) IsInside() bool { return n.inside }

// Cut returns the cut subset of an internal node. The result is meaningful
// only when IsLeaf is false.
func (n *Node[P, H, S]) Cut() S { return n.cut }

// OnCut returns boundary pieces that were inserted coincident with this
// node's cut and folded into its boundary bookkeeping.
func (n *Node[P, H, S]) OnCut() []S { return n.onCut }

// Minus returns the child on the minus side of the cut, or nil for a leaf.
func (n *Node[P, H, S]) Minus() *Node[P, H, S] { return n.minus }

// Plus returns the child on the plus side of the cut, or nil for a leaf.
func (n *Node[P, H, S]) Plus() *Node[P, H, S] { return n.plus }

// Parent returns the parent node, or nil for the root.
func (n *Node[P, H, S]) Parent() *Node[P, H, S] { return n.parent }

func (n *Node[P, H, S]) count() int {
	if !n.internal {
		return 1
	}
	return 1 + n.minus.count() + n.plus.count()
}

func (n *Node[P, H, S]) height() int {
	if !n.internal {
		return 0
	}
	hm := n.minus.height()
	hp := n.plus.height()
	if hm > hp {
		return hm + 1
	}
	return hp + 1
}

func (n *Node[P, H, S]) anyLeaf(inside bool) bool {
	if !n.internal {
		return n.inside == inside
	}
	return n.minus.anyLeaf(inside) || n.plus.anyLeaf(inside)
}

// newLeaf creates a leaf owned by the tree.
func (t *Tree[P, H, S]) newLeaf(parent *Node[P, H, S], inside bool) *Node[P, H, S] {
	return &Node[P, H, S]{tree: t, parent: parent, inside: inside}
}

// setCut turns a node into an internal node with the given cut and leaf
// attributes for the two new children.
func (t *Tree[P, H, S]) setCut(n *Node[P, H, S], cut S, minusInside, plusInside bool) {
	n.internal = true
	n.cut = cut
	n.onCut = nil
	n.minus = t.newLeaf(n, minusInside)
	n.plus = t.newLeaf(n, plusInside)
}

// Insert inserts a region boundary piece into the tree. The piece descends
// from the root, splitting whenever it straddles an existing cut; each
// fragment that reaches a leaf cuts the leaf with the piece's hyperplane
// trimmed to the leaf's region, with the minus child inside the region and
// the plus child outside. Storing the trimmed hyperplane rather than the
// raw fragment lets boundary extraction recover exact extents by
// characterizing the cut against the leaf structure, which stays correct
// when later merges dissolve coincident cuts. Pieces coincident with an
// existing cut are folded into that cut's boundary bookkeeping instead of
// creating a new node.
func (t *Tree[P, H, S]) Insert(sub S) {
	t.insertRecursive(t.root, sub)
	t.invalidate()
}

func (t *Tree[P, H, S]) insertRecursive(n *Node[P, H, S], sub S) {
	if !n.internal {
		// The fragment reached this leaf, so its hyperplane crosses the
		// leaf's region and trimming cannot come up empty.
		trimmed, ok := t.trimToRegion(n, sub.Hyperplane().Span())
		if !ok {
			return
		}
		t.setCut(n, trimmed, true, false)
		return
	}
	sp := sub.Split(n.cut.Hyperplane())
	switch sp.Loc {
	case SplitNeither:
		n.onCut = append(n.onCut, sub)
	case SplitMinus:
		t.insertRecursive(n.minus, sub)
	case SplitPlus:
		t.insertRecursive(n.plus, sub)
	case SplitBoth:
		t.insertRecursive(n.minus, sp.Minus)
		t.insertRecursive(n.plus, sp.Plus)
	}
}

// InsertCut installs a structural cut at a leaf node. The hyperplane's span
// is trimmed to the region owned by the node; if no part of the hyperplane
// lies inside that region the tree is left unchanged and false is returned.
// The two new children inherit the leaf's region attribute.
func (t *Tree[P, H, S]) InsertCut(n *Node[P, H, S], h H) bool {
	if n.internal {
		return false
	}
	trimmed, ok := t.trimToRegion(n, h.Span())
	if !ok {
		return false
	}
	t.setCut(n, trimmed, n.inside, n.inside)
	t.invalidate()
	return true
}

// trimToRegion cuts the subset down to the convex region owned by the node,
// splitting by each ancestor cut hyperplane in turn. It returns false when
// the subset lies entirely outside the node's region or exactly on one of
// the bounding hyperplanes.
func (t *Tree[P, H, S]) trimToRegion(n *Node[P, H, S], sub S) (S, bool) {
	cur := sub
	child := n
	for parent := n.parent; parent != nil; parent = parent.parent {
		sp := cur.Split(parent.cut.Hyperplane())
		onMinus := parent.minus == child
		switch sp.Loc {
		case SplitNeither:
			var zero S
			return zero, false
		case SplitMinus:
			if !onMinus {
				var zero S
				return zero, false
			}
		case SplitPlus:
			if onMinus {
				var zero S
				return zero, false
			}
		case SplitBoth:
			if onMinus {
				cur = sp.Minus
			} else {
				cur = sp.Plus
			}
		}
		child = parent
	}
	return cur, true
}

// Classify determines the region membership of a point by tree descent. A
// point lying on a cut hyperplane descends both children; if they disagree
// the point is on the region boundary.
func (t *Tree[P, H, S]) Classify(pt P) Location {
	return classifyNode(t.root, pt)
}

func classifyNode[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](n *Node[P, H, S], pt P) Location {
	if !n.internal {
		if n.inside {
			return Inside
		}
		return Outside
	}
	switch n.cut.Hyperplane().Classify(pt) {
	case SideMinus:
		return classifyNode(n.minus, pt)
	case SidePlus:
		return classifyNode(n.plus, pt)
	}
	minusLoc := classifyNode(n.minus, pt)
	plusLoc := classifyNode(n.plus, pt)
	if minusLoc == plusLoc {
		return minusLoc
	}
	return Boundary
}

// Copy returns a deep copy of the tree. The copy shares no nodes with the
// original; the immutable cut subsets are shared.
func (t *Tree[P, H, S]) Copy() *Tree[P, H, S] {
	c := &Tree[P, H, S]{}
	c.root = copySubtree(t.root, c, nil, false)
	return c
}

// Complement flips the region in place, negating every leaf attribute.
func (t *Tree[P, H, S]) Complement() {
	complementNode(t.root)
	t.invalidate()
}

func complementNode[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](n *Node[P, H, S]) {
	if !n.internal {
		n.inside = !n.inside
		return
	}
	complementNode(n.minus)
	complementNode(n.plus)
}

// copySubtree deep-copies the subtree rooted at n into the destination
// tree, optionally negating leaf attributes.
func copySubtree[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](
	n *Node[P, H, S], dst *Tree[P, H, S], parent *Node[P, H, S], negate bool) *Node[P, H, S] {

	c := &Node[P, H, S]{tree: dst, parent: parent}
	if !n.internal {
		c.inside = n.inside != negate
		return c
	}
	c.internal = true
	c.cut = n.cut
	c.onCut = append([]S(nil), n.onCut...)
	c.minus = copySubtree(n.minus, dst, c, negate)
	c.plus = copySubtree(n.plus, dst, c, negate)
	return c
}

// Condense prunes internal nodes whose two children are leaves with the
// same region attribute; such cuts no longer distinguish inside from
// outside.
func (t *Tree[P, H, S]) Condense() {
	if condenseNode(t.root) {
		t.invalidate()
	}
}

func condenseNode[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](n *Node[P, H, S]) bool {
	if !n.internal {
		return false
	}
	changed := condenseNode(n.minus)
	changed = condenseNode(n.plus) || changed
	if !n.minus.internal && !n.plus.internal && n.minus.inside == n.plus.inside {
		n.inside = n.minus.inside
		n.internal = false
		var zero S
		n.cut = zero
		n.onCut = nil
		n.minus = nil
		n.plus = nil
		return true
	}
	return changed
}

// TransformCuts rewrites every cut subset through fn. When swap is true the
// minus and plus children of every node are exchanged, which callers request
// when the transform reverses orientation. The tree takes ownership of the
// returned subsets.
func (t *Tree[P, H, S]) TransformCuts(fn func(S) S, swap bool) {
	transformNode(t.root, fn, swap)
	t.invalidate()
}

func transformNode[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](
	n *Node[P, H, S], fn func(S) S, swap bool) {

	if !n.internal {
		return
	}
	n.cut = fn(n.cut)
	for i, sub := range n.onCut {
		n.onCut[i] = fn(sub)
	}
	transformNode(n.minus, fn, swap)
	transformNode(n.plus, fn, swap)
	if swap {
		n.minus, n.plus = n.plus, n.minus
	}
}

// WalkInternal visits every internal node of the tree in depth-first order,
// minus child before plus child. The walk stops early when visit returns
// false.
func (t *Tree[P, H, S]) WalkInternal(visit func(n *Node[P, H, S]) bool) {
	walkInternal(t.root, visit)
}

func walkInternal[P any, H Hyperplane[P, H, S], S HyperplaneSubset[P, H, S]](
	n *Node[P, H, S], visit func(*Node[P, H, S]) bool) bool {

	if !n.internal {
		return true
	}
	if !visit(n) {
		return false
	}
	if !walkInternal(n.minus, visit) {
		return false
	}
	return walkInternal(n.plus, visit)
}
