package scip_test

import (
	"context"
	"fmt"

	"github.com/mmghannam/scip"
	"github.com/mmghannam/scip/nodesel"
	"github.com/mmghannam/scip/numerics"
	"github.com/mmghannam/scip/tree"
)

// pathProblem picks the cheaper of two steps at every level; leaves sit at a
// fixed depth, so the optimum is depth times the cheap step.
type pathProblem struct {
	depth int
}

func (p *pathProblem) base(node *tree.Node) float64 {
	if node.LowerBound() <= -numerics.Infinity {
		return 0
	}
	return node.LowerBound()
}

func (p *pathProblem) Relax(_ context.Context, node *tree.Node) (scip.Relaxation, error) {
	base := p.base(node)
	if node.Depth() == p.depth {
		return scip.Relaxation{LowerBound: base, Integral: true, Value: base}, nil
	}
	return scip.Relaxation{LowerBound: base}, nil
}

func (p *pathProblem) Branch(_ context.Context, node *tree.Node) ([]scip.Child, error) {
	base := p.base(node)
	return []scip.Child{
		{LowerBound: base + 1},
		{LowerBound: base + 5},
	}, nil
}

func Example() {
	p := &pathProblem{depth: 3}

	solver, err := scip.New(p, p,
		scip.WithNodeSelector(nodesel.BestBound{}),
	)
	if err != nil {
		panic(err)
	}

	result, err := solver.Solve(context.Background())
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s %g\n", result.Status, result.UpperBound)
	// Output: Optimal 3
}
