// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package middleware provides the HTTP middleware chain for the Hemat
// API: request-ID propagation, Prometheus instrumentation, gzip
// compression, and rate-limit accounting.
//
// All middleware use the chi-compatible func(http.Handler) http.Handler
// shape so they compose on the router:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.Compression)
package middleware
