package profiler

// metrics.go mirrors the teacher's pkg/metrics.go shape: an unexported
// metricsSink interface with a noop and a Prometheus implementation, so the
// Runner's call sites never branch on whether metrics are enabled.
//
// ┌────────────────────────────────┬───────┬──────────────┐
// │ Metric                         │ Type  │ Labels       │
// ├────────────────────────────────┼───────┼──────────────┤
// │ mrcsim_requests_processed_total│ Ctr   │ profiler     │
// │ mrcsim_rows_emitted_total      │ Ctr   │ profiler     │
// │ mrcsim_worker_failures_total   │ Ctr   │ (none)       │
// │ mrcsim_run_duration_seconds    │ Hist  │ profiler     │
// └────────────────────────────────┴───────┴──────────────┘

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metricsSink interface {
	addRequestsProcessed(profilerKind string, n uint64)
	incRowsEmitted(profilerKind string, n int)
	incWorkerFailure()
	observeRunDuration(profilerKind string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) addRequestsProcessed(string, uint64)      {}
func (noopMetrics) incRowsEmitted(string, int)                {}
func (noopMetrics) incWorkerFailure()                          {}
func (noopMetrics) observeRunDuration(string, time.Duration)   {}

type promMetrics struct {
	requestsProcessed *prometheus.CounterVec
	rowsEmitted       *prometheus.CounterVec
	workerFailures    prometheus.Counter
	runDuration       *prometheus.HistogramVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"profiler"}
	pm := &promMetrics{
		requestsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrcsim",
			Name:      "requests_processed_total",
			Help:      "Number of trace requests processed by a profiler run.",
		}, label),
		rowsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mrcsim",
			Name:      "rows_emitted_total",
			Help:      "Number of MRC table rows emitted.",
		}, label),
		workerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mrcsim",
			Name:      "worker_failures_total",
			Help:      "Number of MINISIM worker-pool failures.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mrcsim",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a complete profiler run.",
			Buckets:   prometheus.DefBuckets,
		}, label),
	}
	reg.MustRegister(pm.requestsProcessed, pm.rowsEmitted, pm.workerFailures, pm.runDuration)
	return pm
}

func (pm *promMetrics) addRequestsProcessed(profilerKind string, n uint64) {
	pm.requestsProcessed.WithLabelValues(profilerKind).Add(float64(n))
}

func (pm *promMetrics) incRowsEmitted(profilerKind string, n int) {
	pm.rowsEmitted.WithLabelValues(profilerKind).Add(float64(n))
}

func (pm *promMetrics) incWorkerFailure() {
	pm.workerFailures.Inc()
}

func (pm *promMetrics) observeRunDuration(profilerKind string, d time.Duration) {
	pm.runDuration.WithLabelValues(profilerKind).Observe(d.Seconds())
}
