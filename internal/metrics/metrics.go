package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks API requests by method and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindd_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "outcome"},
	)

	// RequestErrorsTotal tracks classified request errors by kind
	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindd_request_errors_total",
			Help: "Total number of classified request errors",
		},
		[]string{"kind"},
	)

	// RequestRetriesTotal tracks retry attempts beyond the first
	RequestRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "remindd_request_retries_total",
			Help: "Total number of request retries",
		},
	)

	// RequestLatency tracks per-attempt request latency
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remindd_request_latency_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// StoreOpsTotal tracks durable store operations by op and outcome
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindd_store_ops_total",
			Help: "Total number of durable store operations",
		},
		[]string{"op", "outcome"},
	)

	// RevalidationsTotal tracks revalidation attempts by resource and outcome
	RevalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindd_revalidations_total",
			Help: "Total number of resource revalidations",
		},
		[]string{"resource", "outcome"},
	)
)
