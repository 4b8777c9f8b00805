package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal counts requests by route pattern and status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partconfig_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"route", "status"})

	// httpRequestDuration tracks request latency by route pattern
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partconfig_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"route"})

	// generationsTotal counts generated items by part category
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partconfig_generations_total",
		Help: "Generated item records by part category",
	}, []string{"part"})

	// lookupMissesTotal counts reference lookups that found no match
	lookupMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partconfig_lookup_misses_total",
		Help: "Reference lookups with no matching material",
	}, []string{"lookup"})

	// dataloadsTotal counts DataLoad exports by mode and result
	dataloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partconfig_dataloads_total",
		Help: "DataLoad exports by mode and result",
	}, []string{"mode", "result"})
)

// instrument records request count and latency per chi route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
