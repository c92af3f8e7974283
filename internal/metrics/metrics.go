// Package metrics provides Prometheus metrics for the curation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionsTotal counts curator actions by action and outcome (ok, noop, or an error kind).
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newscuration",
			Name:      "curation_actions_total",
			Help:      "Total number of curator actions",
		},
		[]string{"action", "outcome"},
	)

	// PublishDuration measures the publish bridge transaction.
	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newscuration",
			Name:      "publish_duration_seconds",
			Help:      "Duration of publish operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// IntakeItemsTotal counts scraped records seen by intake.
	IntakeItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newscuration",
			Name:      "intake_items_total",
			Help:      "Scraped records processed by intake",
		},
		[]string{"result"},
	)
)

// RecordAction records one curator action.
func RecordAction(action, outcome string) {
	ActionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordPublish records a publish duration in seconds.
func RecordPublish(seconds float64) {
	PublishDuration.Observe(seconds)
}

// RecordIntake records one intake result (queued, duplicate, advisor_error, failed).
func RecordIntake(result string) {
	IntakeItemsTotal.WithLabelValues(result).Inc()
}
