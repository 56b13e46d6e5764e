// Package metrics holds the prometheus collectors for the screen server and
// the outbound API client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_http_requests_total",
			Help: "Screen server requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parking_http_request_duration_seconds",
			Help:    "Screen server request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_api_calls_total",
			Help: "Backend API calls by endpoint and outcome (ok, network, status, decode)",
		},
		[]string{"endpoint", "outcome"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parking_api_call_duration_seconds",
			Help:    "Backend API call latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	StaleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_stale_responses_total",
			Help: "Responses discarded because a newer request for the same cache slot was issued",
		},
		[]string{"slot"},
	)

	ForcedLogoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_forced_logouts_total",
			Help: "Sessions ended because the token expired or could not be decoded",
		},
	)

	FeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parking_feed_clients",
			Help: "Connected state feed websocket clients",
		},
	)

	PrintJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_print_jobs_total",
			Help: "Receipt print jobs by outcome",
		},
		[]string{"outcome"},
	)
)

var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parking_gate_decisions_total",
		Help: "Screen access checks by capability and decision",
	},
	[]string{"capability", "decision"},
)
