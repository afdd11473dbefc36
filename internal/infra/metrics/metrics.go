package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Actions measures every dispatched action.
type Actions struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	unmatch  *prometheus.CounterVec
}

func NewActions(reg prometheus.Registerer) *Actions {
	a := &Actions{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_actions_total",
				Help: "Dispatched actions by name and outcome (ok, error, unknown).",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "estoque_action_duration_seconds",
				Help:    "Duration of dispatched actions in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		unmatch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estoque_unmatched_movements_total",
				Help: "Inbound/outbound records whose item id matched no item.",
			},
			[]string{"type"},
		),
	}
	reg.MustRegister(a.total, a.duration, a.unmatch)
	return a
}

func (a *Actions) Observe(action, outcome string, took time.Duration) {
	if a == nil {
		return
	}
	a.total.WithLabelValues(action, outcome).Inc()
	if outcome != "unknown" {
		a.duration.WithLabelValues(action).Observe(took.Seconds())
	}
}

func (a *Actions) UnmatchedMovement(moveType string) {
	if a == nil {
		return
	}
	a.unmatch.WithLabelValues(moveType).Inc()
}
