package nodesel

import "github.com/mmghannam/scip/tree"

// BestEstimate processes the node with the smallest objective estimate
// first. The estimate predicts the best feasible solution reachable in the
// subtree, which usually finds improving solutions earlier than pure best
// bound search. Estimates are not bounds, so the frontier tracks the dual
// bound itself.
type BestEstimate struct{}

// Name returns the selector name ("estimate").
func (BestEstimate) Name() string { return "estimate" }

// LowestBoundFirst reports that the ordering does not sort by lower bound.
func (BestEstimate) LowestBoundFirst() bool { return false }

// Compare ranks by ascending estimate, then ascending lower bound, then
// preferring the deeper node.
func (BestEstimate) Compare(a, b *tree.Node) int {
	if c := compareBounds(a.Estimate(), b.Estimate()); c != 0 {
		return c
	}
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
