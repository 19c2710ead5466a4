package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollsTotal tracks polls by observed merge state
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergewatch_polls_total",
			Help: "Total number of pull request polls",
		},
		[]string{"state"},
	)

	// MergesTotal tracks successfully merged pull requests
	MergesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mergewatch_merges_total",
			Help: "Total number of merged pull requests",
		},
	)

	// OutcomesTotal tracks completed attempt runs by final outcome
	OutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergewatch_outcomes_total",
			Help: "Total number of completed attempt runs by outcome",
		},
		[]string{"outcome"},
	)

	// AttemptDuration tracks wall-clock time of a full attempt run
	AttemptDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mergewatch_attempt_duration_seconds",
			Help:    "Duration of a full attempt run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
	)

	// DeadLetterDepth tracks the dead letter queue depth
	DeadLetterDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mergewatch_dead_letter_depth",
			Help: "Number of pull requests awaiting operator attention",
		},
	)

	// DBConnectionPoolUsage tracks database connection pool usage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mergewatch_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
