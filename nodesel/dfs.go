package nodesel

import "github.com/mmghannam/scip/tree"

// DepthFirst processes the deepest open node first, diving into the tree
// before widening it. Ties are broken by ascending lower bound. The deepest
// node carries no bound guarantee, so the frontier must track the dual bound
// on its own.
type DepthFirst struct{}

// Name returns the selector name ("dfs").
func (DepthFirst) Name() string { return "dfs" }

// LowestBoundFirst reports that the ordering does not sort by lower bound.
func (DepthFirst) LowestBoundFirst() bool { return false }

// Compare ranks the deeper node first; equal depths rank by lower bound.
func (DepthFirst) Compare(a, b *tree.Node) int {
	if a.Depth() != b.Depth() {
		if a.Depth() > b.Depth() {
			return -1
		}
		return +1
	}
	return compareBounds(a.LowerBound(), b.LowerBound())
}

func compareBounds(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}
