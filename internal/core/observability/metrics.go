package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of upstream calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"upstream"},
	)

	upstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Failed upstream calls by upstream and failure kind.",
		},
		[]string{"upstream", "kind"},
	)

	resourcesFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resources_filtered_total",
			Help: "Resource records tested against an isochrone, by outcome.",
		},
		[]string{"outcome"},
	)

	datasetCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_cache_results_total",
			Help: "Parsed category dataset lookups by outcome.",
		},
		[]string{"outcome"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

// Collectors returns the service collectors so they can be exposed on a
// dedicated registry as well as the default one. Build info is excluded; the
// metrics provider carries its own.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		upstreamLatencySeconds,
		upstreamErrorsTotal,
		resourcesFiltered,
		datasetCacheResults,
	}
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveUpstreamLatency(upstream string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(upstream).Observe(durationSeconds)
}

// IncUpstreamError counts a failed upstream call. kind is one of
// "transport", "status", "decode" or "empty".
func IncUpstreamError(upstream, kind string) {
	upstreamErrorsTotal.WithLabelValues(upstream, kind).Inc()
}

func AddResourcesFiltered(inside, outside int) {
	if inside > 0 {
		resourcesFiltered.WithLabelValues("inside").Add(float64(inside))
	}
	if outside > 0 {
		resourcesFiltered.WithLabelValues("outside").Add(float64(outside))
	}
}

func IncDatasetCacheHit() {
	datasetCacheResults.WithLabelValues("hit").Inc()
}

func IncDatasetCacheMiss() {
	datasetCacheResults.WithLabelValues("miss").Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
