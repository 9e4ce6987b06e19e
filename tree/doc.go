// Package tree implements the branch-and-bound search tree bookkeeping:
// subproblem nodes, the frontier of open nodes (NodeQueue) and the tree
// manager that owns node lifecycles.
//
// The frontier is a binary heap over an exchangeable ordering (Selector).
// Because many selectors do not order by lower bound, the queue maintains
// the global dual bound (the minimal lower bound over all open nodes) with
// a lazy cache instead of relying on the heap root. The queue is driven by
// a single goroutine; it performs no locking of its own.
package tree
