package vecops

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting kernel throughput metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordDot is called after a run of dot product calls.
	// dim is the vector length, calls the number of kernel invocations.
	RecordDot(dim int, calls int64, duration time.Duration)

	// RecordBulkShuffle is called after a run of bulk shuffle aggregations.
	RecordBulkShuffle(codebookCount int, calls int64, duration time.Duration)

	// RecordMismatch is called when two kernels disagree beyond tolerance.
	RecordMismatch(name string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDot(int, int64, time.Duration)         {}
func (NoopMetricsCollector) RecordBulkShuffle(int, int64, time.Duration) {}
func (NoopMetricsCollector) RecordMismatch(string)                       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe for concurrent use.
type BasicMetricsCollector struct {
	DotCalls          atomic.Int64
	DotElements       atomic.Int64
	DotTotalNanos     atomic.Int64
	ShuffleCalls      atomic.Int64
	ShuffleCodebooks  atomic.Int64
	ShuffleTotalNanos atomic.Int64
	Mismatches        atomic.Int64
}

// RecordDot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDot(dim int, calls int64, duration time.Duration) {
	b.DotCalls.Add(calls)
	b.DotElements.Add(calls * int64(dim))
	b.DotTotalNanos.Add(duration.Nanoseconds())
}

// RecordBulkShuffle implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBulkShuffle(codebookCount int, calls int64, duration time.Duration) {
	b.ShuffleCalls.Add(calls)
	b.ShuffleCodebooks.Add(calls * int64(codebookCount))
	b.ShuffleTotalNanos.Add(duration.Nanoseconds())
}

// RecordMismatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMismatch(string) {
	b.Mismatches.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DotCalls:         b.DotCalls.Load(),
		DotElements:      b.DotElements.Load(),
		DotAvgNanos:      avgNanos(b.DotTotalNanos.Load(), b.DotCalls.Load()),
		ShuffleCalls:     b.ShuffleCalls.Load(),
		ShuffleCodebooks: b.ShuffleCodebooks.Load(),
		ShuffleAvgNanos:  avgNanos(b.ShuffleTotalNanos.Load(), b.ShuffleCalls.Load()),
		Mismatches:       b.Mismatches.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DotCalls         int64
	DotElements      int64
	DotAvgNanos      int64
	ShuffleCalls     int64
	ShuffleCodebooks int64
	ShuffleAvgNanos  int64
	Mismatches       int64
}
