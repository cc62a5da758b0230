// Package metrics holds the Prometheus collectors of the ATS API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ats"

// HTTPRequestsTotal counts served requests.
// Labels: method, route (gin full path, "unmatched" for 404s), status code.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// CandidateMutationsTotal counts create/update/delete outcomes.
// Labels: operation ("create", "update", "delete"), outcome ("ok", "rejected", "error").
var CandidateMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidate_mutations_total",
		Help:      "Total number of candidate mutations by outcome.",
	},
	[]string{"operation", "outcome"},
)

// ResumeBytesStored sums the size of accepted resume uploads.
var ResumeBytesStored = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resume_bytes_stored_total",
		Help:      "Total bytes of resume files written to storage.",
	},
)
