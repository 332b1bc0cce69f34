package observability

import (
	"errors"
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
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		},
		[]string{"method", "route", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_latency_seconds",
			Help:    "Latency of upstream calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
		},
		[]string{"upstream"},
	)

	upstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_failures_total",
			Help: "Upstream calls that produced no usable response.",
		},
		[]string{"upstream", "reason"},
	)

	searchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_results_total",
			Help: "Places returned to callers by search kind.",
		},
		[]string{"kind"},
	)

	searchRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_rejections_total",
			Help: "Searches answered empty before any upstream call.",
		},
		[]string{"reason"},
	)

	sessionStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_op_total",
			Help: "Processed-set store operations by result.",
		},
		[]string{"op", "result"},
	)

	sessionStoreOpSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_store_op_duration_seconds",
			Help:    "Duration of processed-set store operations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "region_sessions_active",
			Help: "Region search sessions currently held by the registry.",
		},
	)

	placeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_events_total",
			Help: "Place records handed to the event sink by result.",
		},
		[]string{"result"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

// Init registers the collectors with an extra registry, e.g. the isolated
// one served on the metrics port
func Init(reg prometheus.Registerer, enabled bool) {
	if !enabled || reg == nil {
		return
	}
	for _, c := range []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		upstreamLatencySeconds,
		upstreamFailures,
		searchResults,
		searchRejections,
		sessionStoreOps,
		sessionStoreOpSeconds,
		activeSessions,
		placeEvents,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
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

func IncUpstreamFailure(upstream, reason string) {
	upstreamFailures.WithLabelValues(upstream, reason).Inc()
}

func AddSearchResults(kind string, n int) {
	if n <= 0 {
		return
	}
	searchResults.WithLabelValues(kind).Add(float64(n))
}

func IncSearchRejection(reason string) {
	searchRejections.WithLabelValues(reason).Inc()
}

func ObserveStoreOp(op string, err error, durationSeconds float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	sessionStoreOps.WithLabelValues(op, result).Inc()
	sessionStoreOpSeconds.WithLabelValues(op).Observe(durationSeconds)
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// IncPlaceEvent counts one place record as queued, dropped or failed.
func IncPlaceEvent(result string) {
	placeEvents.WithLabelValues(result).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
