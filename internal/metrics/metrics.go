// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the API's Prometheus instruments.
//
// It registers on an injected Registerer rather than the package-level
// default, so tests can hand it a fresh registry and register a second
// Collector without a duplicate-registration panic.
type Collector struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	logins    *prometheus.CounterVec
	signups   prometheus.Counter
	inquiries prometheus.Counter
}

// NewCollector creates a Collector and registers its instruments on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specia_http_requests_total",
			Help: "HTTP requests served, by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "specia_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specia_logins_total",
			Help: "Login attempts, by outcome.",
		}, []string{"outcome"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "specia_signups_total",
			Help: "Completed registrations.",
		}),
		inquiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "specia_inquiries_total",
			Help: "Contact-form submissions accepted.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.logins,
		c.signups,
		c.inquiries,
	)

	return c
}

// RecordLogin counts a login attempt. outcome is "success" or "failure".
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordSignup counts a completed registration.
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordInquiry counts an accepted contact-form submission.
func (c *Collector) RecordInquiry() {
	c.inquiries.Inc()
}

// Middleware instruments every request with the counter and histogram.
//
// The route label is the chi route PATTERN ("/api/admin/users/{userID}"),
// not the raw path — labelling by raw path would mint a new time series per
// user id and blow up cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		c.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the status code for the metrics labels.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
