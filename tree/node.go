package tree

import (
	"fmt"

	"github.com/mmghannam/scip/numerics"
)

// NodeType describes where a node currently is in its lifecycle.
type NodeType int

const (
	// TypeChild is a freshly branched node that has not entered the frontier yet.
	TypeChild NodeType = iota

	// TypeLeaf is an open node stored in the frontier.
	TypeLeaf

	// TypeFocus is the node currently being processed by the driver.
	TypeFocus

	// TypeFreed marks a released node. A freed node must never be touched again.
	TypeFreed
)

// String returns a string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case TypeChild:
		return "Child"
	case TypeLeaf:
		return "Leaf"
	case TypeFocus:
		return "Focus"
	case TypeFreed:
		return "Freed"
	default:
		return "Unknown"
	}
}

// Node is a subproblem of the branch-and-bound tree.
//
// Nodes are created through a Tree and identified by pointer; the number is
// a stable identifier for diagnostics and checkpoints. The queue never copies
// nodes, it stores references only.
type Node struct {
	number     uint64
	parent     *Node
	depth      int
	lowerBound float64
	estimate   float64
	typ        NodeType
	data       any
}

// Number returns the node's creation number (root is 1).
func (n *Node) Number() uint64 { return n.number }

// Parent returns the parent node, or nil for the root and freed nodes.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the depth of the node in the tree (root is 0).
func (n *Node) Depth() int { return n.depth }

// LowerBound returns the proven lower bound of the subproblem.
func (n *Node) LowerBound() float64 { return n.lowerBound }

// Estimate returns the estimated objective value of the best feasible
// solution in the subtree.
func (n *Node) Estimate() float64 { return n.estimate }

// Type returns the current lifecycle type of the node.
func (n *Node) Type() NodeType { return n.typ }

// UpdateLowerBound tightens the node's lower bound. Bounds only move up;
// a weaker bound is ignored.
func (n *Node) UpdateLowerBound(lowerBound float64) {
	if lowerBound > n.lowerBound {
		n.lowerBound = lowerBound
	}
}

// SetEstimate sets the node's objective estimate.
func (n *Node) SetEstimate(estimate float64) { n.estimate = estimate }

// Data returns the caller-attached subproblem state, or nil. Data is not
// persisted in checkpoints; restored nodes start with nil data.
func (n *Node) Data() any { return n.data }

// SetData attaches subproblem state to the node.
func (n *Node) SetData(data any) { n.data = data }

func (n *Node) String() string {
	return fmt.Sprintf("node #%d (depth=%d, lowerbound=%g, type=%s)", n.number, n.depth, n.lowerBound, n.typ)
}

// NewNode constructs a detached node. It is intended for checkpoint restore
// and tests; regular solving creates nodes through Tree.
func NewNode(number uint64, depth int, lowerBound, estimate float64) *Node {
	return &Node{
		number:     number,
		depth:      depth,
		lowerBound: lowerBound,
		estimate:   estimate,
		typ:        TypeChild,
	}
}

func unknownBound() float64 { return -numerics.Infinity }
