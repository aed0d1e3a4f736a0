package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapsapi",
			Name:      "requests_total",
			Help:      "Outbound requests to the maps service by endpoint and HTTP status.",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mapsapi",
			Name:      "request_duration_seconds",
			Help:      "Outbound request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func observeRequest(endpoint, status string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(endpoint, status).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
