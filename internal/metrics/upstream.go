package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream service labels.
const (
	ServiceElasticsearch = "elasticsearch"
	ServiceWorkspace     = "workspace"
	ServiceUserProfile   = "user_profile"
)

// Upstream call Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of calls to upstream services",
		},
		[]string{"service", "operation", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service", "operation"},
	)
)

var upstreamRegistered bool

// RegisterUpstreamMetrics registers upstream call metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	upstreamRegistered = true
}

// ObserveUpstream records one upstream call outcome.
func ObserveUpstream(service, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(service, operation, status).Inc()
	UpstreamRequestDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}
