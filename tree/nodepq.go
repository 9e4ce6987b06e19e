package tree

import "github.com/mmghannam/scip/numerics"

// Selector is the exchangeable ordering of the frontier.
//
// Compare returns a negative value if a should be processed before b, zero if
// the two are tied, and a positive value otherwise. It must be a strict weak
// ordering; anything else corrupts the heap silently.
//
// LowestBoundFirst declares whether Compare already sorts the node with the
// globally minimal lower bound to the front. When it does, the queue reads
// the dual bound off the heap root; otherwise it falls back to lazy
// bookkeeping. The flag is fixed per selector. Swapping the selector of a
// non-empty queue requires Resort.
type Selector interface {
	Name() string
	Compare(a, b *Node) int
	LowestBoundFirst() bool
}

// NodeQueue is the frontier of open subproblems: a slice-backed binary heap
// of node references ordered by the active Selector.
//
// Beside the heap itself the queue tracks the exact sum of all queued lower
// bounds, and, for selectors that do not sort by bound, a lazy cache of the
// minimal lower bound (value, one node attaining it, and the number of
// queued nodes tied at it within tolerance).
type NodeQueue struct {
	sel Selector
	tol numerics.Tolerance

	slots []*Node

	lowerBoundNode  *Node   // node with minimal lower bound, nil if not cached
	lowerBound      float64 // minimal lower bound of all queued nodes
	numLowerBound   int     // number of queued nodes tied at lowerBound (0 if invalid)
	validLowerBound bool    // is the cached lowerBound usable?

	lowerBoundSum float64 // exact running sum, never lazy
}

func pqParent(pos int) int     { return (pos+1)/2 - 1 }
func pqLeftChild(pos int) int  { return 2*pos + 1 }
func pqRightChild(pos int) int { return 2*pos + 2 }

// NewNodeQueue creates an empty frontier ordered by sel.
func NewNodeQueue(sel Selector, tol numerics.Tolerance) *NodeQueue {
	if sel == nil {
		panic("tree: nil selector")
	}
	return &NodeQueue{
		sel:             sel,
		tol:             tol,
		lowerBound:      numerics.Infinity,
		validLowerBound: true,
	}
}

// Selector returns the active ordering.
func (q *NodeQueue) Selector() Selector { return q.sel }

// Len returns the number of queued nodes.
func (q *NodeQueue) Len() int { return len(q.slots) }

// Insert adds a node to the frontier and marks it as an open leaf.
// Inserting a freed node is a programming error and panics.
func (q *NodeQueue) Insert(node *Node) {
	if node == nil {
		panic("tree: insert of nil node")
	}
	if node.typ == TypeFreed {
		panic("tree: insert of freed node")
	}
	node.typ = TypeLeaf

	q.lowerBoundSum += node.lowerBound

	// Append at the end, then move the node towards the root as long as it
	// is better than its parent.
	pos := len(q.slots)
	q.slots = append(q.slots, nil)
	for pos > 0 && q.sel.Compare(node, q.slots[pqParent(pos)]) < 0 {
		q.slots[pos] = q.slots[pqParent(pos)]
		pos = pqParent(pos)
	}
	q.slots[pos] = node

	if !q.sel.LowestBoundFirst() {
		q.updateLowerBound(node)
	}
}

// updateLowerBound folds a newly inserted node into the lazy minimum-bound
// cache. Only called for selectors without the LowestBoundFirst guarantee.
// An invalid cache stays invalid; it is rebuilt on the next query.
func (q *NodeQueue) updateLowerBound(node *Node) {
	if !q.validLowerBound {
		return
	}
	lb := node.lowerBound
	if q.tol.IsLE(lb, q.lowerBound) {
		if q.tol.IsEQ(lb, q.lowerBound) {
			q.numLowerBound++
		} else {
			q.lowerBoundNode = node
			q.lowerBound = lb
			q.numLowerBound = 1
		}
	}
}

// calcLowerBound rebuilds the lazy cache with a full scan.
func (q *NodeQueue) calcLowerBound() {
	q.validLowerBound = true
	q.lowerBoundNode = nil
	q.lowerBound = numerics.Infinity
	q.numLowerBound = 0

	for _, node := range q.slots {
		q.updateLowerBound(node)
	}
}

// delPos removes the node at the given slot and re-seats the queue's last
// node into the hole. The replacement is first moved towards the root as
// long as it is better than the parents on the way; only if no parent fell
// down is it moved downwards instead, following the better child. Exactly
// one direction is attempted: if the replacement is not better than the
// parent of the hole, the heap property below the hole already guarantees
// it is not worse than the children either.
//
// Returns whether a parent fell down into the removed slot, in which case
// the caller must examine the same slot again.
func (q *NodeQueue) delPos(pos int) bool {
	node := q.slots[pos]

	if !q.sel.LowestBoundFirst() && q.numLowerBound > 0 {
		if q.tol.IsEQ(node.lowerBound, q.lowerBound) {
			q.numLowerBound--
			if q.numLowerBound == 0 {
				// The last node at the cached minimum leaves; force a rescan
				// on the next bound query instead of scanning here.
				q.validLowerBound = false
				q.lowerBound = numerics.Infinity
			}
		}
		if node == q.lowerBoundNode {
			q.lowerBoundNode = nil
		}
	}

	q.lowerBoundSum -= node.lowerBound

	last := q.slots[len(q.slots)-1]
	q.slots[len(q.slots)-1] = nil
	q.slots = q.slots[:len(q.slots)-1]

	freePos := pos
	if freePos == len(q.slots) {
		return false
	}

	parentFellDown := false
	parentPos := pqParent(freePos)
	for freePos > 0 && q.sel.Compare(last, q.slots[parentPos]) < 0 {
		q.slots[freePos] = q.slots[parentPos]
		freePos = parentPos
		parentPos = pqParent(freePos)
		parentFellDown = true
	}
	if !parentFellDown {
		// As long as the free slot has children, pull the better child up
		// until the replacement is at least as good as both children.
		for freePos <= pqParent(len(q.slots)-1) {
			childPos := pqLeftChild(freePos)
			brotherPos := pqRightChild(freePos)
			if brotherPos < len(q.slots) && q.sel.Compare(q.slots[brotherPos], q.slots[childPos]) < 0 {
				childPos = brotherPos
			}
			if q.sel.Compare(last, q.slots[childPos]) <= 0 {
				break
			}
			q.slots[freePos] = q.slots[childPos]
			freePos = childPos
		}
	}
	q.slots[freePos] = last

	return parentFellDown
}

// findPos returns the slot of the given node, or -1. The heap is not indexed
// by identity, so this is a linear scan. Known cost, not a defect: removal
// by identity is a rare retract operation, not the hot path.
func (q *NodeQueue) findPos(node *Node) int {
	for pos, n := range q.slots {
		if n == node {
			return pos
		}
	}
	return -1
}

// Remove removes the given node from the frontier. Returns ErrNodeNotInQueue
// if the node is not queued.
func (q *NodeQueue) Remove(node *Node) error {
	pos := q.findPos(node)
	if pos == -1 {
		return ErrNodeNotInQueue
	}
	q.delPos(pos)
	return nil
}

// First returns the best node without removing it, or nil if the frontier is
// empty.
func (q *NodeQueue) First() *Node {
	if len(q.slots) == 0 {
		return nil
	}
	return q.slots[0]
}

// RemoveBest removes and returns the best node under the active selector,
// or nil if the frontier is empty. The returned node becomes the focus node;
// ownership moves back to the caller.
func (q *NodeQueue) RemoveBest() *Node {
	if len(q.slots) == 0 {
		return nil
	}
	node := q.slots[0]
	q.delPos(0)
	node.typ = TypeFocus
	return node
}

// Nodes returns a snapshot of the queued nodes in heap order.
func (q *NodeQueue) Nodes() []*Node {
	nodes := make([]*Node, len(q.slots))
	copy(nodes, q.slots)
	return nodes
}

// LowerBound returns the minimal lower bound over all queued nodes, the
// global dual bound contribution of the frontier. Returns numerics.Infinity
// for an empty frontier.
func (q *NodeQueue) LowerBound() float64 {
	if q.sel.LowestBoundFirst() {
		// The selector sorts the minimal bound to the front.
		if len(q.slots) > 0 {
			return q.slots[0].lowerBound
		}
		return numerics.Infinity
	}

	if !q.validLowerBound {
		q.calcLowerBound()
	}
	return q.lowerBound
}

// LowerBoundNode returns a node attaining the minimal lower bound, or nil if
// the frontier is empty.
func (q *NodeQueue) LowerBoundNode() *Node {
	if q.sel.LowestBoundFirst() {
		if len(q.slots) > 0 {
			return q.slots[0]
		}
		return nil
	}

	if !q.validLowerBound || q.lowerBoundNode == nil {
		q.calcLowerBound()
	}
	return q.lowerBoundNode
}

// LowerBoundSum returns the exact sum of the lower bounds of all queued
// nodes.
func (q *NodeQueue) LowerBoundSum() float64 { return q.lowerBoundSum }

// Bound removes every queued node whose lower bound is not below the given
// upper bound and hands it to free. Returns the number of cut off nodes.
//
// Slots are scanned from the last index down to 0. The heap property makes
// this safe: children sit at higher indices than their parent and are never
// better, so they are examined before the parent can be cut off from under
// them. When the removal made a parent fall down into the scanned slot, the
// same slot is examined again, since a different node occupies it now.
func (q *NodeQueue) Bound(upperBound float64, free func(*Node)) int {
	cut := 0
	pos := len(q.slots) - 1
	for pos >= 0 {
		node := q.slots[pos]
		if q.tol.IsGE(node.lowerBound, upperBound) {
			parentFellDown := q.delPos(pos)
			if !parentFellDown {
				pos--
			}
			cut++
			if free != nil {
				free(node)
			}
		} else {
			pos--
		}
	}
	return cut
}

// Resort rebuilds the frontier under a new selector. All nodes are kept; the
// heap is reconstructed by reinserting them under the new ordering. This is
// the only supported way to change the ordering of a non-empty frontier.
func (q *NodeQueue) Resort(sel Selector) {
	if sel == nil {
		panic("tree: nil selector")
	}
	old := q.slots

	q.sel = sel
	q.slots = make([]*Node, 0, len(old))
	q.lowerBoundNode = nil
	q.lowerBound = numerics.Infinity
	q.numLowerBound = 0
	q.validLowerBound = true
	q.lowerBoundSum = 0

	for _, node := range old {
		q.Insert(node)
	}
}

// Destroy empties the frontier. If free is non-nil it is called for every
// remaining node; pass nil when the nodes are relocated rather than released.
func (q *NodeQueue) Destroy(free func(*Node)) {
	if free != nil {
		for _, node := range q.slots {
			free(node)
		}
	}
	q.slots = nil
	q.lowerBoundNode = nil
	q.lowerBound = numerics.Infinity
	q.numLowerBound = 0
	q.validLowerBound = true
	q.lowerBoundSum = 0
}
