// Package observability provides metrics and tracing for the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationFailures counts swallowed notification dispatch errors
	// by notification kind (mention, reply, status).
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studydeck_notification_failures_total",
		Help: "Total notification dispatch failures by kind",
	}, []string{"kind"})

	// RedisErrors counts Redis command errors by operation name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studydeck_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records query latency observed by the GORM
	// logger, labeled slow/ok.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studydeck_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// LikeToggles counts engagement ledger toggles by target kind and
	// resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studydeck_like_toggles_total",
		Help: "Total like toggles by target kind and resulting state",
	}, []string{"target_kind", "state"})
)

// ObserveQuery records one database query duration.
func ObserveQuery(elapsed time.Duration, slow bool) {
	outcome := "ok"
	if slow {
		outcome = "slow"
	}
	DatabaseQueryLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
