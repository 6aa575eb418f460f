package executor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil when no registerer was configured; every method is a no-op then.
type metrics struct {
	spawned    prometheus.Counter
	completed  prometheus.Counter
	polls      prometheus.Counter
	passes     prometheus.Counter
	queueDepth prometheus.Gauge
	live       prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, runtimeID string) *metrics {
	if reg == nil {
		return nil
	}
	labels := prometheus.Labels{"runtime": runtimeID}

	m := &metrics{
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "minirt_tasks_spawned_total",
			Help:        "Total number of tasks spawned",
			ConstLabels: labels,
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "minirt_tasks_completed_total",
			Help:        "Total number of tasks polled to completion",
			ConstLabels: labels,
		}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "minirt_polls_total",
			Help:        "Total number of task polls",
			ConstLabels: labels,
		}),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "minirt_drain_passes_total",
			Help:        "Total number of ready queue drain passes",
			ConstLabels: labels,
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "minirt_queue_depth",
			Help:        "Number of tasks taken by the latest drain pass",
			ConstLabels: labels,
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "minirt_live_tasks",
			Help:        "Number of spawned tasks not yet completed or discarded",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(m.spawned, m.completed, m.polls, m.passes, m.queueDepth, m.live)
	return m
}

func (m *metrics) taskSpawned() {
	if m == nil {
		return
	}
	m.spawned.Inc()
	m.live.Inc()
}

func (m *metrics) taskCompleted() {
	if m == nil {
		return
	}
	m.completed.Inc()
	m.live.Dec()
}

func (m *metrics) taskPolled() {
	if m == nil {
		return
	}
	m.polls.Inc()
}

func (m *metrics) pass(depth int) {
	if m == nil {
		return
	}
	m.passes.Inc()
	m.queueDepth.Set(float64(depth))
}

func (m *metrics) discarded(n int) {
	if m == nil {
		return
	}
	m.live.Sub(float64(n))
	m.queueDepth.Set(0)
}
