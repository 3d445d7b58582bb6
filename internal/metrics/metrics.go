// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "productivity"

// Calculation outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeConfigError  = "config_unavailable"
	OutcomeFetchFailure = "fetch_failed"
)

var (
	Calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Productivity calculations by outcome.",
	}, []string{"outcome"})

	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Time spent scoring a fetched task database.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notion_fetch_duration_seconds",
		Help:      "Time spent fetching the Notion database.",
		Buckets:   prometheus.DefBuckets,
	})

	TasksScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_scored_total",
		Help:      "Task records passed through the scorer.",
	})

	UnprioritizedTasks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_unprioritized_total",
		Help:      "Task records excluded from weighting for lack of a priority.",
	})

	WeightedScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "weighted_score",
		Help:      "Weighted score of the last calculation.",
	}, []string{"subset"})

	CompletionPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "completion_percent",
		Help:      "Weighted completion percentage of the last calculation.",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_failures_total",
		Help:      "Results that could not be saved.",
	})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notion_breaker_state",
		Help:      "Notion circuit breaker state (1 for the current state).",
	}, []string{"state"})
)

// SetBreakerState marks state as current and clears the others.
func SetBreakerState(state string) {
	for _, s := range []string{"closed", "half-open", "open"} {
		v := 0.0
		if s == state {
			v = 1
		}
		BreakerState.WithLabelValues(s).Set(v)
	}
}
