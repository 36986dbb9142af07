// Package metrics provides Prometheus metrics for the relief service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "relief"
)

// Ingestion metrics
var (
	// IngestRunsTotal counts ingestion runs by result ("ok", "error").
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Total number of ingestion runs",
		},
		[]string{"result"},
	)

	// AlertsProcessedTotal counts alerts that created a processed marker.
	AlertsProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "alerts_processed_total",
			Help:      "Total number of newly processed alerts",
		},
	)

	// AlertsSkippedTotal counts feed alerts that were already processed.
	AlertsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "alerts_skipped_total",
			Help:      "Total number of feed alerts skipped as already processed",
		},
	)
)

// Dispatch metrics
var (
	// DispatchOutcomesTotal counts per-user dispatch outcomes.
	DispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Per-user dispatch outcomes",
		},
		[]string{"outcome"},
	)

	PayoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "payouts_total",
			Help:      "Total number of balance credits",
		},
	)

	PayoutAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "payout_amount_total",
			Help:      "Sum of credited payout amounts",
		},
	)
)
