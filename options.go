package scip

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmghannam/scip/checkpoint"
	"github.com/mmghannam/scip/nodesel"
	"github.com/mmghannam/scip/numerics"
	"github.com/mmghannam/scip/tree"
)

type options struct {
	selector         tree.Selector
	tolerance        numerics.Tolerance
	nodeLimit        uint64
	metricsCollector MetricsCollector
	logger           *Logger
	checkpoints      *checkpoint.Manager
	checkpointEvery  uint64
	progress         *rate.Limiter
}

// Option configures Solver constructor behavior.
type Option func(*options)

// WithNodeSelector configures the initial node ordering policy.
//
// If nil is passed, nodesel.Default is used. The policy can be replaced
// mid-solve with Solver.SetNodeSelector.
func WithNodeSelector(sel tree.Selector) Option {
	return func(o *options) {
		if sel == nil {
			sel = nodesel.Default
		}
		o.selector = sel
	}
}

// WithTolerance configures the feasibility tolerance used for bound
// comparisons. Two bounds closer than the tolerance's epsilon are treated
// as equal.
func WithTolerance(tol numerics.Tolerance) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithNodeLimit stops the search after processing the given number of nodes.
// Zero means unlimited. A stopped search can be resumed by calling Solve
// again, or checkpointed and resumed elsewhere.
func WithNodeLimit(limit uint64) Option {
	return func(o *options) {
		o.nodeLimit = limit
	}
}

// WithCheckpoints configures periodic frontier snapshots. everyNodes is the
// number of processed nodes between saves.
//
// Example:
//
//	mgr := checkpoint.NewManager(blobstore.NewLocalStore("./ckpts"))
//	solver, _ := scip.New(relaxer, brancher,
//	    scip.WithCheckpoints(mgr, 10000),
//	)
func WithCheckpoints(mgr *checkpoint.Manager, everyNodes uint64) Option {
	return func(o *options) {
		o.checkpoints = mgr
		o.checkpointEvery = everyNodes
	}
}

// WithProgressInterval logs search progress at most once per interval.
// Zero disables progress logging.
func WithProgressInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval <= 0 {
			o.progress = nil
			return
		}
		o.progress = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring the
// search. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &scip.BasicMetricsCollector{}
//	solver, _ := scip.New(relaxer, brancher, scip.WithMetricsCollector(metrics))
//	// ... solve ...
//	stats := metrics.GetStats()
//	fmt.Printf("Nodes: %d, Incumbents: %d\n", stats.NodeCount, stats.IncumbentCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for the search.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := scip.NewJSONLogger(slog.LevelInfo)
//	solver, _ := scip.New(relaxer, brancher, scip.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		selector:         nodesel.Default,
		tolerance:        numerics.Default(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
