package workerpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics exports pool activity as Prometheus collectors.
type PrometheusMetrics struct {
	queued   prometheus.Gauge
	executed prometheus.Counter
	failed   prometheus.Counter
}

// NewPrometheusMetrics registers the pool collectors with reg, labelled
// with the pool name. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace, pool string) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"pool": pool}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "workerpool",
			Name:        "tasks_queued",
			Help:        "Number of tasks waiting in the queue",
			ConstLabels: labels,
		}),
		executed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "workerpool",
			Name:        "tasks_executed_total",
			Help:        "Total number of tasks run by workers",
			ConstLabels: labels,
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "workerpool",
			Name:        "tasks_failed_total",
			Help:        "Total number of tasks that returned an error or panicked",
			ConstLabels: labels,
		}),
	}
}

func (m *PrometheusMetrics) IncQueued()             { m.queued.Inc() }
func (m *PrometheusMetrics) BatchDecQueued(n int64) { m.queued.Sub(float64(n)) }
func (m *PrometheusMetrics) IncExecuted()           { m.executed.Inc() }
func (m *PrometheusMetrics) IncFailed()             { m.failed.Inc() }
