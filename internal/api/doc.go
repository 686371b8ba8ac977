// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package api provides the HTTP surface of Hemat: a chi router under
// /api/v1 exposing the receipt pipeline, recommendations, geo ranking,
// and the receipt archive, plus health and Prometheus endpoints.
//
// Routes:
//
//	GET  /api/v1/health           liveness and ledger readiness
//	GET  /metrics                 Prometheus exposition
//	POST /api/v1/receipts         full pipeline (extract, append, recommend, rank)
//	GET  /api/v1/recommendations  cohort recommendations for the caller
//	POST /api/v1/rank             rank a supplied product list by proximity
//	GET  /api/v1/records          archived receipts for the caller
//
// All /api/v1 data routes require a bearer JWT; the caller uid comes
// from the token, never from the request body.
package api
