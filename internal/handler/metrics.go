package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	submissions        prometheus.Counter
	replies            prometheus.Counter
	validationFailures *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry, so several
// instances (e.g. in tests) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "firehawk_contact_submissions_total",
			Help: "Contact messages accepted.",
		}),
		replies: factory.NewCounter(prometheus.CounterOpts{
			Name: "firehawk_contact_replies_total",
			Help: "Replies recorded on contact messages.",
		}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "firehawk_contact_validation_failures_total",
			Help: "Requests rejected by input validation.",
		}, []string{"operation"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firehawk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes request latency labelled by the matched mux pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(sr.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) submitted() {
	if m != nil {
		m.submissions.Inc()
	}
}

func (m *Metrics) replied() {
	if m != nil {
		m.replies.Inc()
	}
}

func (m *Metrics) validationFailed(op string) {
	if m != nil {
		m.validationFailures.WithLabelValues(op).Inc()
	}
}
