package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish results.
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_events_published_total",
			Help: "Total number of storefront events handed to Kafka by topic and result",
		},
		[]string{"topic", "result"},
	)

	eventPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_event_publish_duration_seconds",
			Help:    "Duration of storefront event writes in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic"},
	)

	eventPayloadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_event_payload_bytes",
			Help:    "Encoded size of storefront event envelopes",
			Buckets: prometheus.ExponentialBuckets(128, 2, 8),
		},
		[]string{"topic"},
	)
)
