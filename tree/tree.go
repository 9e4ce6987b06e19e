package tree

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Tree owns the lifecycle of all branch-and-bound nodes. It hands out
// numbered nodes, releases them exactly once, and records which subproblems
// were cut off without processing so a solve can be audited afterwards.
type Tree struct {
	nextNumber uint64
	root       *Node

	created uint64
	freed   uint64

	pruned *roaring64.Bitmap // numbers of nodes cut off by bounding
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nextNumber: 1,
		pruned:     roaring64.New(),
	}
}

// CreateRoot creates the root node at depth 0 with an unknown lower bound.
// Panics if the root already exists.
func (t *Tree) CreateRoot() *Node {
	if t.root != nil {
		panic("tree: root already created")
	}
	t.root = t.newNode(nil, unknownBound(), unknownBound())
	return t.root
}

// Root returns the root node, or nil before CreateRoot.
func (t *Tree) Root() *Node { return t.root }

// CreateChild creates a child of parent. The child inherits the parent's
// lower bound if the given bound is weaker; a subproblem can never be easier
// than the problem it was split from.
func (t *Tree) CreateChild(parent *Node, lowerBound, estimate float64) (*Node, error) {
	if parent == nil {
		panic("tree: child of nil parent")
	}
	if parent.typ == TypeFreed {
		return nil, ErrNodeFreed
	}
	if lowerBound < parent.lowerBound {
		lowerBound = parent.lowerBound
	}
	return t.newNode(parent, lowerBound, estimate), nil
}

func (t *Tree) newNode(parent *Node, lowerBound, estimate float64) *Node {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	node := &Node{
		number:     t.nextNumber,
		parent:     parent,
		depth:      depth,
		lowerBound: lowerBound,
		estimate:   estimate,
		typ:        TypeChild,
	}
	t.nextNumber++
	t.created++
	return node
}

// Adopt registers a detached node (from a checkpoint restore) with the tree,
// keeping the numbering monotone past the restored nodes.
func (t *Tree) Adopt(node *Node) error {
	if node.typ == TypeFreed {
		return ErrNodeFreed
	}
	if node.number >= t.nextNumber {
		t.nextNumber = node.number + 1
	}
	t.created++
	return nil
}

// Free releases a node. Returns ErrNodeFreed on a double free.
func (t *Tree) Free(node *Node) error {
	if node.typ == TypeFreed {
		return ErrNodeFreed
	}
	node.typ = TypeFreed
	node.parent = nil
	node.data = nil
	t.freed++
	return nil
}

// Prune releases a node that was cut off by bounding and records its number.
func (t *Tree) Prune(node *Node) error {
	if err := t.Free(node); err != nil {
		return err
	}
	t.pruned.Add(node.number)
	return nil
}

// Stats is a snapshot of tree counters.
type Stats struct {
	Created uint64 // nodes ever created (or adopted)
	Freed   uint64 // nodes released
	Pruned  uint64 // nodes cut off by bounding, subset of Freed
}

// Stats returns the current tree counters.
func (t *Tree) Stats() Stats {
	return Stats{
		Created: t.created,
		Freed:   t.freed,
		Pruned:  t.pruned.GetCardinality(),
	}
}

// WasPruned reports whether the node with the given number was cut off by
// bounding.
func (t *Tree) WasPruned(number uint64) bool { return t.pruned.Contains(number) }

// PrunedNumbers returns the numbers of all nodes cut off by bounding, in
// ascending order.
func (t *Tree) PrunedNumbers() []uint64 { return t.pruned.ToArray() }
