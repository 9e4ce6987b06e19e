package scip

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    nodeCounter      prometheus.Counter
//	    incumbentCounter prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordNode(duration time.Duration, err error) {
//	    p.nodeCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordNode is called after each processed node.
	// duration is the total time taken, err is nil if successful.
	RecordNode(duration time.Duration, err error)

	// RecordIncumbent is called when a better feasible solution is found.
	// cutoff is the number of open nodes pruned by the new bound.
	RecordIncumbent(value float64, cutoff int)

	// RecordResort is called when the frontier is reordered under a new
	// node selector. open is the frontier size at the time.
	RecordResort(open int, duration time.Duration)

	// RecordCheckpoint is called after each checkpoint save attempt.
	RecordCheckpoint(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordNode(time.Duration, error)       {}
func (NoopMetricsCollector) RecordIncumbent(float64, int)          {}
func (NoopMetricsCollector) RecordResort(int, time.Duration)       {}
func (NoopMetricsCollector) RecordCheckpoint(time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	NodeCount            atomic.Int64
	NodeErrors           atomic.Int64
	NodeTotalNanos       atomic.Int64
	IncumbentCount       atomic.Int64
	CutoffNodes          atomic.Int64
	ResortCount          atomic.Int64
	CheckpointCount      atomic.Int64
	CheckpointErrors     atomic.Int64
	CheckpointTotalNanos atomic.Int64
}

// RecordNode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNode(duration time.Duration, err error) {
	b.NodeCount.Add(1)
	b.NodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.NodeErrors.Add(1)
	}
}

// RecordIncumbent implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIncumbent(value float64, cutoff int) {
	b.IncumbentCount.Add(1)
	b.CutoffNodes.Add(int64(cutoff))
}

// RecordResort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResort(open int, duration time.Duration) {
	b.ResortCount.Add(1)
}

// RecordCheckpoint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheckpoint(duration time.Duration, err error) {
	b.CheckpointCount.Add(1)
	b.CheckpointTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CheckpointErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		NodeCount:          b.NodeCount.Load(),
		NodeErrors:         b.NodeErrors.Load(),
		NodeAvgNanos:       b.getAvgNodeNanos(),
		IncumbentCount:     b.IncumbentCount.Load(),
		CutoffNodes:        b.CutoffNodes.Load(),
		ResortCount:        b.ResortCount.Load(),
		CheckpointCount:    b.CheckpointCount.Load(),
		CheckpointErrors:   b.CheckpointErrors.Load(),
		CheckpointAvgNanos: b.getAvgCheckpointNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgNodeNanos() int64 {
	count := b.NodeCount.Load()
	if count == 0 {
		return 0
	}
	return b.NodeTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgCheckpointNanos() int64 {
	count := b.CheckpointCount.Load()
	if count == 0 {
		return 0
	}
	return b.CheckpointTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	NodeCount          int64
	NodeErrors         int64
	NodeAvgNanos       int64
	IncumbentCount     int64
	CutoffNodes        int64
	ResortCount        int64
	CheckpointCount    int64
	CheckpointErrors   int64
	CheckpointAvgNanos int64
}
