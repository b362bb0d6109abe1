package twod

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ConnectStrategy selects among multiple boundary pieces starting at the
// same point while assembling paths.
type ConnectStrategy int

const (
	// AngleMinimize prefers the piece turning most sharply toward the
	// region interior. With the interior on the minus (left) side this
	// keeps each assembled loop as tight as possible, so separate loops
	// sharing a vertex stay separate.
	AngleMinimize ConnectStrategy = iota
	// AngleMaximize prefers the piece turning most sharply away from the
	// interior, merging loops that share a vertex into one path.
	AngleMaximize
)

// Connector assembles unordered boundary subsets into connected line
// paths. Pieces are joined end to start, first by exact coordinate match
// and then by nearest match within tolerance; ambiguous joins are resolved
// by the connect strategy.
type Connector struct {
	strategy ConnectStrategy
}

// NewConnector returns a connector using the given strategy.
func NewConnector(strategy ConnectStrategy) *Connector {
	return &Connector{strategy: strategy}
}

// Connect assembles the subsets into maximal paths. Closed loops of two
// mutually reversed pieces enclose no area and are discarded. The input
// slice is not modified.
func (c *Connector) Connect(subsets []*LineSubset) []*LinePath {
	remaining := append([]*LineSubset(nil), subsets...)
	used := make([]bool, len(remaining))
	var paths []*LinePath

	// Pieces that extend to infinity backward can only start a path;
	// consume them first so chains never stall waiting for them.
	for i, s := range remaining {
		if used[i] {
			continue
		}
		if _, ok := s.StartPoint(); !ok {
			used[i] = true
			paths = append(paths, c.follow(s, remaining, used))
		}
	}
	for i, s := range remaining {
		if used[i] {
			continue
		}
		used[i] = true
		paths = append(paths, c.follow(s, remaining, used))
	}

	out := paths[:0]
	for _, p := range paths {
		if isSliverLoop(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// follow extends a chain from the given first piece until it closes, ends
// in an infinite piece, or runs out of continuations.
func (c *Connector) follow(first *LineSubset, pool []*LineSubset, used []bool) *LinePath {
	chain := []*LineSubset{first}
	start, hasStart := first.StartPoint()
	cur := first

	for {
		end, ok := cur.EndPoint()
		if !ok {
			// Extends to infinity forward.
			return assemblePath(chain, false)
		}
		if hasStart && len(chain) > 1 && pointsEq(end, start, cur.Line().Precision()) {
			return assemblePath(chain, true)
		}

		next := c.pickNext(end, cur.Line().Direction(), pool, used)
		if next < 0 {
			// A chain of one piece whose end already equals its start is a
			// degenerate loop; treat it as closed.
			closed := hasStart && len(chain) == 1 && pointsEq(end, start, cur.Line().Precision())
			return assemblePath(chain, closed)
		}
		used[next] = true
		cur = pool[next]
		chain = append(chain, cur)
	}
}

// pickNext returns the index of the best unused continuation starting at
// pt, or -1. Exact coordinate matches win over tolerance matches, and ties
// within a pass are broken by the connect strategy.
func (c *Connector) pickNext(pt, incoming r2.Vec, pool []*LineSubset, used []bool) int {
	best := -1
	bestExact := false
	var bestAngle float64

	for i, s := range pool {
		if used[i] {
			continue
		}
		start, ok := s.StartPoint()
		if !ok {
			continue
		}
		exact := start == pt
		if !exact {
			if bestExact || !pointsEq(start, pt, s.Line().Precision()) {
				continue
			}
		}
		angle := turnAngle(incoming, s.Line().Direction())
		if best < 0 || (exact && !bestExact) || (exact == bestExact && c.better(angle, bestAngle)) {
			best, bestExact, bestAngle = i, exact, angle
		}
	}
	return best
}

// better compares signed turn angles. A larger turn toward the minus side
// leaves a smaller interior angle, so AngleMinimize prefers the largest
// signed turn and AngleMaximize the smallest.
func (c *Connector) better(angle, best float64) bool {
	if c.strategy == AngleMinimize {
		return angle > best
	}
	return angle < best
}

// turnAngle returns the signed angle in (-pi, pi] from the incoming
// direction to the outgoing one; positive angles turn toward the minus
// (interior) side.
func turnAngle(in, out r2.Vec) float64 {
	return math.Atan2(crossVec(in, out), r2.Dot(in, out))
}

// assemblePath merges collinear consecutive pieces and wraps the chain in
// a path. For closed paths the seam between last and first piece is merged
// as well.
func assemblePath(chain []*LineSubset, closed bool) *LinePath {
	merged := make([]*LineSubset, 0, len(chain))
	for _, s := range chain {
		if n := len(merged); n > 0 && merged[n-1].IsFinite() && merged[n-1].Line().Eq(s.Line()) {
			if m, ok := mergeCollinear(merged[n-1], s); ok {
				merged[n-1] = m
				continue
			}
		}
		merged = append(merged, s)
	}
	if closed && len(merged) > 1 {
		last, first := merged[len(merged)-1], merged[0]
		if last.IsFinite() && last.Line().Eq(first.Line()) {
			if m, ok := mergeCollinear(last, first); ok {
				merged = append(merged[1:len(merged)-1], m)
			}
		}
	}
	return &LinePath{subsets: merged, closed: closed}
}

// isSliverLoop reports whether the path is a closed two-piece loop whose
// pieces run along the same line in opposite directions, enclosing no
// area.
func isSliverLoop(p *LinePath) bool {
	if !p.closed || len(p.subsets) != 2 {
		return false
	}
	a, b := p.subsets[0], p.subsets[1]
	return a.Line().Eq(b.Line().Reverse())
}
