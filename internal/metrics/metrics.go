// Package metrics provides Prometheus instrumentation for the site.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webstudio",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status class.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "webstudio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PlanSelectionsTotal counts plan picks by plan name.
	PlanSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webstudio",
			Name:      "plan_selections_total",
			Help:      "Total plan selections by plan.",
		},
		[]string{"plan"},
	)

	// QuoteTotal observes checked-out quote totals in dollars.
	QuoteTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "webstudio",
		Name:      "quote_total_dollars",
		Help:      "Checked-out quote totals in dollars.",
		Buckets:   []float64{250, 500, 1000, 1500, 2000, 3000, 5000},
	})

	// ContactSubmissionsTotal counts contact submissions by outcome.
	ContactSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webstudio",
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome (sent, failed, invalid).",
		},
		[]string{"outcome"},
	)

	// ActiveSessions tracks pricing sessions held in memory.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "webstudio",
		Name:      "active_sessions",
		Help:      "Number of pricing sessions currently held in memory.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PlanSelectionsTotal,
		QuoteTotal,
		ContactSubmissionsTotal,
		ActiveSessions,
	)
}

// ObserveContact records a contact submission outcome.
func ObserveContact(outcome string) {
	ContactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(c.Request.Method, path))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, statusBucket(c.Writer.Status())).Inc()
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
