package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signuprelay_webhook_events_received_total",
		Help: "Total number of webhook events received, labelled by event key.",
	}, []string{"event_key"})

	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signuprelay_webhook_events_processed_total",
		Help: "Total number of webhook events processed successfully, labelled by event key.",
	}, []string{"event_key"})

	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signuprelay_webhook_events_rejected_total",
		Help: "Total number of webhook events rejected before or during dispatch, labelled by reason.",
	}, []string{"reason"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signuprelay_upstream_request_duration_ms",
		Help:    "Outbound request latency in milliseconds, labelled by target service.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"target"})
)
