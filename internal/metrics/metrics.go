package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PushApplied counts push frames merged into a live view.
	PushApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meterwatch_push_messages_total",
		Help: "Push frames applied to dashboard state.",
	})

	// PushDiscarded counts frames dropped before merging (handshake or
	// undecodable payload).
	PushDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meterwatch_push_discarded_total",
		Help: "Push frames discarded without a state change.",
	})

	// ReconcileRuns counts poller fetches by outcome.
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meterwatch_reconcile_runs_total",
		Help: "Reconciliation fetches by result.",
	}, []string{"result"})

	// InitialLoadFailures counts failed startup loads.
	InitialLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meterwatch_initial_load_failures_total",
		Help: "Initial loads that surfaced an error.",
	})

	// ActiveSessions tracks live meter views.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meterwatch_active_sessions",
		Help: "Dashboard sessions currently running.",
	})
)
