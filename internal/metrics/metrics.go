package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sharehub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sharehub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sharehub",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the gateway rate limiter.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, rateLimited)
	})
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// IncRateLimited counts a request turned away by the limiter.
func IncRateLimited() {
	rateLimited.Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
