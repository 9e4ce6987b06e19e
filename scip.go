package scip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mmghannam/scip/checkpoint"
	"github.com/mmghannam/scip/nodesel"
	"github.com/mmghannam/scip/numerics"
	"github.com/mmghannam/scip/tree"
)

// Relaxation is the result of solving the relaxation of one subproblem.
type Relaxation struct {
	// LowerBound is the proven lower bound on the subproblem's objective.
	LowerBound float64

	// Estimate is the estimated objective value of the best feasible
	// solution in the subtree.
	Estimate float64

	// Infeasible marks a subproblem whose relaxation has no solution.
	Infeasible bool

	// Integral marks a relaxation solution that is feasible for the original
	// problem, i.e. an incumbent candidate with objective Value.
	Integral bool

	// Value is the objective of the integral solution; only meaningful when
	// Integral is set.
	Value float64
}

// Relaxer solves the relaxation of a subproblem. Implementations identify
// subproblems by node number and keep their own per-node state.
type Relaxer interface {
	Relax(ctx context.Context, node *tree.Node) (Relaxation, error)
}

// Child describes one subproblem created by branching. Data is attached to
// the created node and can be read back in later Relax and Branch calls;
// it is not persisted in checkpoints, so implementations that checkpoint
// must be able to rebuild their state for restored nodes.
type Child struct {
	LowerBound float64
	Estimate   float64
	Data       any
}

// Brancher splits a fractional subproblem into children. Returning no
// children fathoms the node.
type Brancher interface {
	Branch(ctx context.Context, node *tree.Node) ([]Child, error)
}

// Status is the outcome of a Solve call.
type Status int

const (
	// StatusUnknown means the search has not finished.
	StatusUnknown Status = iota

	// StatusOptimal means the frontier is exhausted and the incumbent is
	// proven optimal.
	StatusOptimal

	// StatusInfeasible means the frontier is exhausted without any feasible
	// solution.
	StatusInfeasible

	// StatusNodeLimit means the node limit was reached; call Solve again or
	// checkpoint to continue.
	StatusNodeLimit

	// StatusInterrupted means the context was cancelled; call Solve again
	// with a fresh context to continue.
	StatusInterrupted
)

// String returns a string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusNodeLimit:
		return "NodeLimit"
	case StatusInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// Result is a snapshot of the search state when Solve returns.
type Result struct {
	Status         Status
	UpperBound     float64
	DualBound      float64
	NodesProcessed uint64
	OpenNodes      int
	Tree           tree.Stats
}

// Gap returns the relative gap between the upper and dual bound. An
// unbounded or sign-crossing pair of bounds yields +Inf; matching bounds
// yield 0.
func (r *Result) Gap() float64 {
	if r.UpperBound >= numerics.Infinity || r.DualBound <= -numerics.Infinity {
		return math.Inf(1)
	}
	if r.UpperBound == r.DualBound {
		return 0
	}
	if r.UpperBound*r.DualBound < 0 {
		return math.Inf(1)
	}
	denom := math.Max(math.Abs(r.UpperBound), math.Abs(r.DualBound))
	if denom == 0 {
		return math.Inf(1)
	}
	return (r.UpperBound - r.DualBound) / denom
}

// Solver runs the branch-and-bound search over a tree of subproblems,
// minimizing the objective. The subproblem mathematics is delegated to the
// Relaxer and Brancher; the Solver owns node selection, bounding, and
// checkpointing.
//
// A Solver is not safe for concurrent use.
type Solver struct {
	opts options
	tol  numerics.Tolerance

	relaxer  Relaxer
	brancher Brancher

	tree     *tree.Tree
	frontier *tree.NodeQueue

	upperBound    float64
	hasIncumbent  bool
	incumbentNode uint64

	nodesProcessed uint64
	checkpointSeq  uint64
	started        bool
	done           bool
}

// New creates a Solver for the problem defined by relaxer and brancher.
func New(relaxer Relaxer, brancher Brancher, optFns ...Option) (*Solver, error) {
	if relaxer == nil {
		return nil, ErrMissingRelaxer
	}
	if brancher == nil {
		return nil, ErrMissingBrancher
	}

	opts := applyOptions(optFns)

	return &Solver{
		opts:       opts,
		tol:        opts.tolerance,
		relaxer:    relaxer,
		brancher:   brancher,
		tree:       tree.NewTree(),
		frontier:   tree.NewNodeQueue(opts.selector, opts.tolerance),
		upperBound: numerics.Infinity,
	}, nil
}

// Solve runs the search until the frontier is exhausted, the node limit is
// reached, or the context is cancelled. A search stopped by the node limit or
// cancellation can be continued by calling Solve again.
func (s *Solver) Solve(ctx context.Context) (*Result, error) {
	if s.done {
		return nil, ErrSolveDone
	}
	if !s.started {
		s.frontier.Insert(s.tree.CreateRoot())
		s.started = true
	}

	for {
		if ctx.Err() != nil {
			return s.result(StatusInterrupted), nil
		}

		node := s.frontier.RemoveBest()
		if node == nil {
			s.done = true
			if s.hasIncumbent {
				return s.result(StatusOptimal), nil
			}
			return s.result(StatusInfeasible), nil
		}

		start := time.Now()
		err := s.processNode(ctx, node)
		s.opts.metricsCollector.RecordNode(time.Since(start), err)
		if err != nil {
			// Keep the frontier consistent so the search stays resumable.
			if node.Type() != tree.TypeFreed {
				s.frontier.Insert(node)
			}
			return nil, err
		}
		s.nodesProcessed++

		if s.opts.progress != nil && s.opts.progress.Allow() {
			s.opts.logger.LogProgress(ctx, s.nodesProcessed, s.frontier.Len(), s.DualBound(), s.upperBound)
		}

		if s.opts.checkpoints != nil && s.opts.checkpointEvery > 0 &&
			s.nodesProcessed%s.opts.checkpointEvery == 0 {
			if _, err := s.Checkpoint(ctx); err != nil {
				return nil, err
			}
		}

		if s.opts.nodeLimit > 0 && s.nodesProcessed >= s.opts.nodeLimit {
			return s.result(StatusNodeLimit), nil
		}
	}
}

// processNode relaxes, bounds, and branches a single focus node. On return
// the node is either freed or, on error, left for the caller to re-queue.
func (s *Solver) processNode(ctx context.Context, node *tree.Node) error {
	// The incumbent may have improved since the node entered the frontier.
	if s.tol.IsGE(node.LowerBound(), s.upperBound) {
		return s.tree.Prune(node)
	}

	relax, err := s.relaxer.Relax(ctx, node)
	if err != nil {
		return fmt.Errorf("relax node %d: %w", node.Number(), err)
	}
	if relax.Infeasible {
		return s.tree.Prune(node)
	}

	node.UpdateLowerBound(relax.LowerBound)
	node.SetEstimate(relax.Estimate)

	if relax.Integral {
		if relax.Value < s.upperBound {
			s.foundIncumbent(ctx, node, relax.Value)
		}
		return s.tree.Free(node)
	}

	if s.tol.IsGE(node.LowerBound(), s.upperBound) {
		return s.tree.Prune(node)
	}

	children, err := s.brancher.Branch(ctx, node)
	if err != nil {
		return fmt.Errorf("branch node %d: %w", node.Number(), err)
	}
	for _, c := range children {
		if math.IsNaN(c.LowerBound) || c.LowerBound >= numerics.Infinity {
			return &ErrInvalidBound{Bound: c.LowerBound}
		}
		child, err := s.tree.CreateChild(node, c.LowerBound, c.Estimate)
		if err != nil {
			return err
		}
		child.SetData(c.Data)
		if s.tol.IsGE(child.LowerBound(), s.upperBound) {
			if err := s.tree.Prune(child); err != nil {
				return err
			}
			continue
		}
		s.frontier.Insert(child)
	}

	return s.tree.Free(node)
}

// foundIncumbent installs a new incumbent and cuts off every open node whose
// bound can no longer beat it.
func (s *Solver) foundIncumbent(ctx context.Context, node *tree.Node, value float64) {
	s.upperBound = value
	s.hasIncumbent = true
	s.incumbentNode = node.Number()

	cut := s.frontier.Bound(value, func(n *tree.Node) {
		_ = s.tree.Prune(n)
	})

	s.opts.logger.LogIncumbent(ctx, value, cut)
	s.opts.metricsCollector.RecordIncumbent(value, cut)
}

// SetNodeSelector replaces the node ordering policy mid-solve. The open
// frontier is reordered under the new policy.
func (s *Solver) SetNodeSelector(sel tree.Selector) {
	if sel == nil {
		sel = nodesel.Default
	}

	start := time.Now()
	s.frontier.Resort(sel)

	s.opts.logger.LogResort(context.Background(), sel.Name(), s.frontier.Len())
	s.opts.metricsCollector.RecordResort(s.frontier.Len(), time.Since(start))
}

// SetNodeSelectorByName replaces the node ordering policy by its registered
// name. Returns an ErrUnknownSelector for unregistered names.
func (s *Solver) SetNodeSelectorByName(name string) error {
	sel, ok := nodesel.ByName(name)
	if !ok {
		return &ErrUnknownSelector{Name: name}
	}
	s.SetNodeSelector(sel)
	return nil
}

// UpperBound returns the objective of the incumbent, or numerics.Infinity
// if none was found yet.
func (s *Solver) UpperBound() float64 { return s.upperBound }

// Incumbent returns the incumbent objective and the number of the node it was
// found at. ok is false while no feasible solution is known.
func (s *Solver) Incumbent() (value float64, node uint64, ok bool) {
	return s.upperBound, s.incumbentNode, s.hasIncumbent
}

// DualBound returns the proven global lower bound: the minimal bound over the
// open frontier, capped at the incumbent.
func (s *Solver) DualBound() float64 {
	lb := s.frontier.LowerBound()
	if lb > s.upperBound {
		lb = s.upperBound
	}
	return lb
}

// Frontier returns the open-node queue for inspection.
func (s *Solver) Frontier() *tree.NodeQueue { return s.frontier }

// Tree returns the node lifecycle bookkeeping.
func (s *Solver) Tree() *tree.Tree { return s.tree }

// NodesProcessed returns the number of nodes processed so far.
func (s *Solver) NodesProcessed() uint64 { return s.nodesProcessed }

func (s *Solver) result(status Status) *Result {
	dual := s.DualBound()
	if status == StatusOptimal {
		dual = s.upperBound
	}
	return &Result{
		Status:         status,
		UpperBound:     s.upperBound,
		DualBound:      dual,
		NodesProcessed: s.nodesProcessed,
		OpenNodes:      s.frontier.Len(),
		Tree:           s.tree.Stats(),
	}
}

// ErrNoCheckpoints is returned by checkpoint operations when the solver was
// built without WithCheckpoints.
var ErrNoCheckpoints = errors.New("checkpoints not configured")

// Checkpoint saves the current frontier through the configured checkpoint
// manager and returns the blob name.
func (s *Solver) Checkpoint(ctx context.Context) (string, error) {
	if s.opts.checkpoints == nil {
		return "", ErrNoCheckpoints
	}

	snap := s.snapshot()

	start := time.Now()
	name, err := s.opts.checkpoints.Save(ctx, snap)
	duration := time.Since(start)

	s.opts.metricsCollector.RecordCheckpoint(duration, err)
	s.opts.logger.LogCheckpoint(ctx, name, len(snap.Nodes), duration, err)
	if err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}

	s.checkpointSeq = snap.Sequence
	return name, nil
}

// Restore loads the latest checkpoint and rebuilds the frontier from it.
// It must be called before the first Solve. Returns blobstore.ErrNotFound
// when no checkpoint exists.
func (s *Solver) Restore(ctx context.Context) error {
	if s.opts.checkpoints == nil {
		return ErrNoCheckpoints
	}
	if s.started {
		return errors.New("restore into a started solver")
	}

	snap, err := s.opts.checkpoints.LoadLatest(ctx)
	if err != nil {
		s.opts.logger.LogRestore(ctx, 0, 0, err)
		return err
	}
	if err := s.restoreSnapshot(snap); err != nil {
		s.opts.logger.LogRestore(ctx, snap.Sequence, 0, err)
		return err
	}

	s.opts.logger.LogRestore(ctx, snap.Sequence, s.frontier.Len(), nil)
	return nil
}

func (s *Solver) snapshot() *checkpoint.Snapshot {
	nodes := s.frontier.Nodes()
	records := make([]checkpoint.NodeRecord, len(nodes))
	for i, n := range nodes {
		records[i] = checkpoint.NodeRecord{
			Number:     n.Number(),
			Depth:      n.Depth(),
			LowerBound: n.LowerBound(),
			Estimate:   n.Estimate(),
		}
	}

	return &checkpoint.Snapshot{
		Sequence:       s.checkpointSeq + 1,
		CreatedAt:      time.Now().UTC(),
		Selector:       s.frontier.Selector().Name(),
		UpperBound:     s.upperBound,
		IncumbentNode:  s.incumbentNode,
		DualBound:      s.DualBound(),
		NodesProcessed: s.nodesProcessed,
		Nodes:          records,
	}
}

func (s *Solver) restoreSnapshot(snap *checkpoint.Snapshot) error {
	sel, ok := nodesel.ByName(snap.Selector)
	if !ok {
		return &ErrUnknownSelector{Name: snap.Selector}
	}

	s.tree = tree.NewTree()
	s.frontier = tree.NewNodeQueue(sel, s.tol)

	for _, rec := range snap.Nodes {
		node := tree.NewNode(rec.Number, rec.Depth, rec.LowerBound, rec.Estimate)
		if err := s.tree.Adopt(node); err != nil {
			return err
		}
		s.frontier.Insert(node)
	}

	s.upperBound = snap.UpperBound
	s.hasIncumbent = !s.tol.IsInfinity(snap.UpperBound)
	s.incumbentNode = snap.IncumbentNode
	s.nodesProcessed = snap.NodesProcessed
	s.checkpointSeq = snap.Sequence
	s.started = true
	s.done = false

	return nil
}
