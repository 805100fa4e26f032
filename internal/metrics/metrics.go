// Package metrics exposes Prometheus instrumentation for the gateway,
// the response cache, and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolens",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by service and outcome.",
	}, []string{"service", "outcome"})

	gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geolens",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Outbound API requests by endpoint and status class.",
	}, []string{"endpoint", "status_class"})

	limiterWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geolens",
		Subsystem: "gateway",
		Name:      "rate_limit_wait_seconds",
		Help:      "Time spent waiting for rate limiter admission.",
		Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geolens",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request durations by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})

	panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geolens",
		Subsystem: "http",
		Name:      "panics_total",
		Help:      "Panics recovered by the HTTP server.",
	})
)

// RecordCacheHit counts a cache hit for a lookup service.
func RecordCacheHit(service string) {
	cacheLookups.WithLabelValues(service, "hit").Inc()
}

// RecordCacheMiss counts a cache miss for a lookup service.
func RecordCacheMiss(service string) {
	cacheLookups.WithLabelValues(service, "miss").Inc()
}

// RecordCacheError counts a cache backend failure (treated as a miss).
func RecordCacheError(service string) {
	cacheLookups.WithLabelValues(service, "error").Inc()
}

// RecordGatewayRequest counts an outbound call result. A status of zero
// means the request never produced an HTTP response.
func RecordGatewayRequest(endpoint string, status int) {
	class := "error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	gatewayRequests.WithLabelValues(endpoint, class).Inc()
}

// RecordLimiterWait observes how long an outbound call waited for
// rate-limiter admission.
func RecordLimiterWait(d time.Duration) {
	limiterWait.Observe(d.Seconds())
}

// RecordHTTPRequest observes a served HTTP request.
func RecordHTTPRequest(route string, code int, d time.Duration) {
	httpDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}

// RecordPanic counts a recovered panic.
func RecordPanic() {
	panics.Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
