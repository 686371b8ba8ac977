// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package metrics holds the Prometheus instrumentation for Hemat:
// API endpoint latency and throughput, pipeline runs and extraction
// retries, ledger append volume, segmentation output, and receipt
// archive activity. All collectors are registered with the default
// registry via promauto and exposed on /metrics.
package metrics
