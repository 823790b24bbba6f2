package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Enricher metrics

	FetchPickupLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bookmarks",
		Name:      "fetch_pickup_latency_seconds",
		Help:      "Time from bookmark creation to the enricher claiming it.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookmarks",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of page metadata fetches.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"outcome"})

	FetchesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookmarks",
		Name:      "enricher_fetches_in_flight",
		Help:      "Number of page fetches currently being executed.",
	})

	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "fetches_total",
		Help:      "Total metadata fetches finished, by outcome.",
	}, []string{"outcome"})

	ReclaimedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "enricher_reclaimed_total",
		Help:      "Bookmarks rescued from a crashed enricher.",
	})

	RefreshRequeuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "refresh_requeued_total",
		Help:      "Bookmarks re-queued for a periodic metadata refresh.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookmarks",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmarks",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		FetchPickupLatency,
		FetchDuration,
		FetchesInFlight,
		FetchesTotal,
		ReclaimedTotal,
		RefreshRequeuedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// checker is satisfied by *health.Checker.
type checker interface {
	LivenessHandler() http.HandlerFunc
	ReadinessHandler() http.HandlerFunc
}

// NewServer exposes /metrics plus the health endpoints on a listener
// separate from the public API.
func NewServer(addr string, c checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", c.LivenessHandler())
	mux.HandleFunc("/readyz", c.ReadinessHandler())
	return &http.Server{Addr: addr, Handler: mux}
}
