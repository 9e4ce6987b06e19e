// Package nodesel provides the built-in node selectors: exchangeable
// orderings of the open-node frontier.
//
// A selector is a pure strategy value implementing tree.Selector. Selectors
// carry no mutable state, so they can be shared freely; switching the
// selector of a live frontier goes through NodeQueue.Resort.
package nodesel

import "github.com/mmghannam/scip/tree"

// ByName returns a built-in selector by its stable name.
//
// The name is the configuration surface: parameter files and checkpoints
// refer to selectors by name only.
func ByName(name string) (tree.Selector, bool) {
	switch name {
	case "dfs":
		return DepthFirst{}, true
	case "bestbound":
		return BestBound{}, true
	case "estimate":
		return BestEstimate{}, true
	default:
		return nil, false
	}
}

// Names returns the names of all built-in selectors.
func Names() []string {
	return []string{"dfs", "bestbound", "estimate"}
}

// Default is the selector used when none is configured.
var Default tree.Selector = BestBound{}
