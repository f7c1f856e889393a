package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog fetch results.
const (
	fetchSuccess  = "success"
	fetchFailure  = "failure"
	fetchCacheHit = "cache_hit"
)

// Cart event actions.
const (
	actionAdd         = "add"
	actionRemove      = "remove"
	actionSetQuantity = "set_quantity"
	actionClear       = "clear"
)

var (
	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_pipeline_duration_seconds",
			Help:    "Duration of one filter, search and sort derivation in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)

	pipelineResults = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_pipeline_results",
			Help: "Number of products in the most recently derived list",
		},
	)

	catalogFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_fetch_total",
			Help: "Total number of catalog loads by result",
		},
		[]string{"result"},
	)

	cartEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_events_total",
			Help: "Total number of applied cart mutations by action",
		},
		[]string{"action"},
	)
)
