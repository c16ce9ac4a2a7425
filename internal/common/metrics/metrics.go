// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_runs_total",
			Help: "Total matching runs by terminal status",
		},
		[]string{"status"},
	)

	CandidatesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidates_evaluated_total",
			Help: "Total candidates scored across all runs",
		},
	)

	MatchesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_found_total",
			Help: "Total matches surfaced across all runs",
		},
	)

	NotificationsDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_notifications_dispatched_total",
			Help: "Total notification records written to the sink",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_run_duration_seconds",
			Help: "Duration of one full matching run in seconds",
		},
	)
)
