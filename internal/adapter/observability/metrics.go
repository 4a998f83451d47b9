package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of job catalog cache reloads by outcome",
		},
		[]string{"status"},
	)
	CatalogJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_jobs",
			Help: "Number of jobs in the current catalog snapshot",
		},
	)

	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of match operations by narrative-analysis usage",
		},
		[]string{"ai"},
	)
	FilterKeptJobs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filter_kept_jobs",
			Help:    "Jobs surviving the relevance pre-filter per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 30, 40, 50},
		},
	)
	// MatchScoreHistogram tracks total_score ([0,100]) of returned matches.
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_total_score",
			Help:    "Distribution of match total_score ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of narrative-analysis requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
	AIFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fallbacks_total",
			Help: "Narrative-analysis calls degraded to deterministic analysis",
		},
		[]string{"reason"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(CatalogReloadsTotal)
	prometheus.MustRegister(CatalogJobs)
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(FilterKeptJobs)
	prometheus.MustRegister(MatchScoreHistogram)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIFallbacksTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveCatalogReload records the outcome and size of a catalog reload.
func ObserveCatalogReload(status string, jobs int) {
	CatalogReloadsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		CatalogJobs.Set(float64(jobs))
	}
}

// ObserveMatch records one match operation and its returned scores.
func ObserveMatch(ai bool, scores []float64) {
	label := "off"
	if ai {
		label = "on"
	}
	MatchRequestsTotal.WithLabelValues(label).Inc()
	for _, s := range scores {
		if s >= 0 && s <= 100 {
			MatchScoreHistogram.Observe(s)
		}
	}
}

// ObserveFilter records how many jobs survived the pre-filter.
func ObserveFilter(kept int) {
	FilterKeptJobs.Observe(float64(kept))
}

// AIRequest records one narrative-analysis call outcome.
func AIRequest(provider, outcome string) {
	AIRequestsTotal.WithLabelValues(provider, outcome).Inc()
}

// AIFallback records a degradation to the deterministic analysis.
func AIFallback(reason string) {
	AIFallbacksTotal.WithLabelValues(reason).Inc()
}
