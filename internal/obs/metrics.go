package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Shared HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Security decision metrics.
var (
	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Authentication and authorization rejections by kind.",
		},
		[]string{"kind"},
	)

	rateLimitRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter.",
	})

	documentAccessDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_access_decisions_total",
			Help: "Document access policy decisions.",
		},
		[]string{"decision"},
	)
)

var initOnce sync.Once

// Init registers metrics in the default registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			authFailuresTotal, rateLimitRejectionsTotal, documentAccessDecisionsTotal,
		)
	})
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AuthFailure counts an authn/authz rejection of the given kind.
func AuthFailure(kind string) {
	authFailuresTotal.WithLabelValues(kind).Inc()
}

// RateLimitRejection counts a 429.
func RateLimitRejection() {
	rateLimitRejectionsTotal.Inc()
}

// DocumentAccessDecision counts an allow/deny decision.
func DocumentAccessDecision(allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	documentAccessDecisionsTotal.WithLabelValues(decision).Inc()
}

// CanonicalPath collapses path parameters so metric label cardinality stays
// bounded. Unrecognized paths pass through unchanged.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if rest, ok := strings.CutPrefix(path, "/v1/documents/"); ok && rest != "" {
		if strings.HasSuffix(rest, "/security") && strings.Count(rest, "/") == 1 {
			return "/v1/documents/:id/security"
		}
		if !strings.Contains(rest, "/") {
			return "/v1/documents/:id"
		}
	}
	return path
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// statusWriter records the response code for metric labels.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
