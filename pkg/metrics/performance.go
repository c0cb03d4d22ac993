package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PerformanceMetrics tracks vendor metric recomputation and purchase order transitions.
type PerformanceMetrics struct {
	duration    *prometheus.HistogramVec
	failures    *prometheus.CounterVec
	snapshots   prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewPerformanceMetrics registers the recompute metrics on the provided registerer.
func NewPerformanceMetrics(reg prometheus.Registerer) *PerformanceMetrics {
	if reg == nil {
		return &PerformanceMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vendorscore_metric_recompute_duration_seconds",
		Help:    "Duration of a single vendor metric recomputation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"metric"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorscore_metric_recompute_failures_total",
		Help: "Failed vendor metric recomputations.",
	}, []string{"metric"})
	snapshots := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vendorscore_performance_snapshots_total",
		Help: "Historical performance snapshots written.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorscore_purchase_order_transitions_total",
		Help: "Purchase order lifecycle transitions applied.",
	}, []string{"status"})
	reg.MustRegister(duration, failures, snapshots, transitions)
	return &PerformanceMetrics{
		duration:    duration,
		failures:    failures,
		snapshots:   snapshots,
		transitions: transitions,
	}
}

// ObserveRecompute records the duration and outcome of one metric recomputation.
func (m *PerformanceMetrics) ObserveRecompute(metric string, elapsed time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	metric = normalizeLabel(metric)
	m.duration.WithLabelValues(metric).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(metric).Inc()
	}
}

// IncSnapshot counts one appended history row.
func (m *PerformanceMetrics) IncSnapshot() {
	if m == nil || m.snapshots == nil {
		return
	}
	m.snapshots.Inc()
}

// IncTransition counts a lifecycle transition into status.
func (m *PerformanceMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}
