// Package scip implements the search-frontier machinery of a branch-and-bound
// solver for minimization problems: a tree of subproblems, a priority queue of
// open nodes with a runtime-replaceable ordering policy, bulk bounding against
// the incumbent, and durable checkpoints of the frontier.
//
// The Solver drives the loop; the actual subproblem mathematics is supplied by
// the caller through the Relaxer and Brancher interfaces, keyed by node number.
//
// Basic usage:
//
//	solver, err := scip.New(relaxer, brancher,
//	    scip.WithNodeSelector(nodesel.BestBound{}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := solver.Solve(ctx)
package scip
