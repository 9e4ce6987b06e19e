package tree

import "errors"

var (
	// ErrNodeNotInQueue is returned when a node is removed by identity but is
	// not stored in the frontier. Whether absence is an error is the caller's
	// decision; the queue only reports it.
	ErrNodeNotInQueue = errors.New("tree: node not in queue")

	// ErrNodeFreed is returned when a freed node is handed back to the tree
	// or the frontier.
	ErrNodeFreed = errors.New("tree: node already freed")
)
