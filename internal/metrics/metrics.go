// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of receipt pipeline runs",
		},
		[]string{"outcome"}, // "success", "error"
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "End-to-end receipt pipeline duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ExtractionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraction_retries_total",
			Help: "Total number of retried extraction calls after malformed responses",
		},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_failures_total",
			Help: "Total number of failed extraction calls",
		},
		[]string{"reason"}, // "malformed", "transport"
	)

	// Ledger Metrics
	LedgerRowsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_rows_appended_total",
			Help: "Total number of rows appended to the purchase ledger",
		},
	)

	LedgerDatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_dataset_rows",
			Help: "Row count of the purchase ledger at last load",
		},
	)

	LedgerLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_load_duration_seconds",
			Help:    "Duration of purchase ledger loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Segmentation Metrics
	SegmentedUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "segmented_users",
			Help: "Number of users per customer segment at last segmentation",
		},
		[]string{"segment"},
	)

	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation lists produced",
		},
	)

	// Receipt Archive Metrics
	ReceiptsArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receipts_archived_total",
			Help: "Total number of receipts stored in the archive",
		},
	)

	ArchiveGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_gc_runs_total",
			Help: "Total number of archive value-log GC rounds",
		},
		[]string{"outcome"}, // "success", "error"
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request on the given endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordPipelineRun records one receipt pipeline run.
func RecordPipelineRun(duration time.Duration, err error) {
	PipelineDuration.Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PipelineRuns.WithLabelValues(outcome).Inc()
}

// RecordLedgerLoad records a ledger load and its resulting row count.
func RecordLedgerLoad(duration time.Duration, rows int) {
	LedgerLoadDuration.Observe(duration.Seconds())
	LedgerDatasetRows.Set(float64(rows))
}

// RecordSegmentation updates the per-segment user gauges.
func RecordSegmentation(counts map[string]int) {
	for segment, n := range counts {
		SegmentedUsers.WithLabelValues(segment).Set(float64(n))
	}
}

// RecordArchiveGC records one GC round of the receipt archive.
func RecordArchiveGC(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ArchiveGCRuns.WithLabelValues(outcome).Inc()
}
