// Package metrics holds the Prometheus collectors of the service. They
// register on the default registry and are served at the metrics path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vlog"

// Submission kinds.
const (
	KindContact = "contact"
	KindVlog    = "vlog"
)

// Outcomes shared by submissions and uploads.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeDisabled = "disabled"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submissions",
			Name:      "total",
			Help:      "Form submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	PageCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "page_cache",
			Name:      "lookups_total",
			Help:      "Page cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Image uploads by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ImageUploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "upload_duration_seconds",
			Help:      "Time spent uploading to the image host",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
)

func ObserveSubmission(kind, outcome string) {
	SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

func ObserveUpload(provider, outcome string, seconds float64) {
	ImageUploadsTotal.WithLabelValues(provider, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeFailed {
		ImageUploadDuration.WithLabelValues(provider).Observe(seconds)
	}
}
