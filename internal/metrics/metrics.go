// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package metrics holds the Prometheus collectors for Marquee.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Recommendation Metrics
	RecommendQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries by domain and outcome",
		},
		[]string{"domain", "outcome"}, // outcome: "ok", "not_found", "invalid", "error"
	)

	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_rank_duration_seconds",
			Help:    "Time spent resolving and ranking one query",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"domain"},
	)

	RankResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_resolutions_total",
			Help: "Query key resolutions by matching step",
		},
		[]string{"domain", "step"}, // step: "key", "category", "normalized", "none"
	)

	// Enrichment Metrics
	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Poster lookups by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "timeout", "rejected", "cache_hit"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_request_duration_seconds",
			Help:    "Duration of outbound poster lookups",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Artifact Metrics
	ArtifactLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artifact_load_duration_seconds",
			Help:    "Time spent loading one precomputed artifact",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"domain", "artifact"},
	)

	ArtifactRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artifact_rows",
			Help: "Row count of each loaded artifact",
		},
		[]string{"domain", "artifact"},
	)

	ArtifactFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_fetches_total",
			Help: "Remote artifact downloads by result",
		},
		[]string{"result"}, // "downloaded", "cached", "error"
	)

	StoreReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_reloads_total",
			Help: "Artifact store reload attempts by result",
		},
		[]string{"result"}, // "success", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordQuery records the outcome of one recommendation query
func RecordQuery(domain, outcome string) {
	RecommendQueries.WithLabelValues(domain, outcome).Inc()
}

// RecordRank records ranking latency and the resolution step that matched
func RecordRank(domain, step string, duration time.Duration) {
	RankDuration.WithLabelValues(domain).Observe(duration.Seconds())
	RankResolutions.WithLabelValues(domain, step).Inc()
}

// RecordEnrichment records one poster lookup outcome
func RecordEnrichment(outcome string, duration time.Duration) {
	EnrichmentRequests.WithLabelValues(outcome).Inc()
	if duration > 0 {
		EnrichmentDuration.Observe(duration.Seconds())
	}
}

// RecordArtifactLoad records load time and row count for one artifact
func RecordArtifactLoad(domain, artifact string, rows int, duration time.Duration) {
	ArtifactLoadDuration.WithLabelValues(domain, artifact).Observe(duration.Seconds())
	ArtifactRows.WithLabelValues(domain, artifact).Set(float64(rows))
}
