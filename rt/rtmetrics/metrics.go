// Package rtmetrics exposes the runtime's ambient Prometheus instrumentation:
// task submission/completion counters, dma byte counters, and dispatch
// latency. It is entirely optional to consume — algorithm and container code
// never reads from it — and is wired up the way the teacher instruments its
// dispatch and transfer paths.
package rtmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shadcore/shad/cmn/mono"
)

var (
	TasksSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shad",
		Subsystem: "rt",
		Name:      "tasks_submitted_total",
		Help:      "Tasks submitted to a locality, by kind (sync/async) and shape (call/execute).",
	}, []string{"kind", "shape"})

	TasksCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shad",
		Subsystem: "rt",
		Name:      "tasks_completed_total",
		Help:      "Tasks completed, by outcome (ok/error).",
	}, []string{"outcome"})

	DMABytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shad",
		Subsystem: "rt",
		Name:      "dma_bytes_total",
		Help:      "Bytes moved by dma, by direction (put/get).",
	}, []string{"direction"})

	DispatchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shad",
		Subsystem: "rt",
		Name:      "dispatch_latency_seconds",
		Help:      "Wall time from a synchronous dispatch call to its return.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(TasksSubmitted, TasksCompleted, DMABytes, DispatchLatency)
}

// ObserveDispatch records a synchronous dispatch's latency given a start
// reading from mono.NanoTime, so dispatch timing never depends on wall-clock
// time (which can jump backward under NTP adjustment) the way the spec's
// concurrency model assumes only a monotonic clock is available.
func ObserveDispatch(startNanos int64) {
	DispatchLatency.Observe(mono.Since(startNanos).Seconds())
}
