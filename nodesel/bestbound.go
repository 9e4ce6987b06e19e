package nodesel

import "github.com/mmghannam/scip/tree"

// BestBound processes the node with the smallest lower bound first. This
// drives the dual bound directly, so the frontier can read the dual bound
// off the heap root without extra bookkeeping.
type BestBound struct{}

// Name returns the selector name ("bestbound").
func (BestBound) Name() string { return "bestbound" }

// LowestBoundFirst reports that the ordering sorts the minimal lower bound
// to the front.
func (BestBound) LowestBoundFirst() bool { return true }

// Compare ranks by ascending lower bound; ties prefer the deeper node, which
// keeps the search plunging instead of hopping between subtrees.
func (BestBound) Compare(a, b *tree.Node) int {
	if c := compareBounds(a.LowerBound(), b.LowerBound()); c != 0 {
		return c
	}
	if a.Depth() != b.Depth() {
		if a.Depth() > b.Depth() {
			return -1
		}
		return +1
	}
	return 0
}
