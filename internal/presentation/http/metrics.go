package httppresentation

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the vectors the HTTP layer records into. They are created
// once and injected; middlewares never instantiate metrics themselves.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Submissions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workflow_submissions_total",
				Help: "Workflow submissions by workflow name and outcome.",
			},
			[]string{"workflow", "outcome"},
		),
	}
	reg.MustRegister(m.Requests, m.Duration, m.Submissions)
	return m
}
