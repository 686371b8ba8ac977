// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package extract talks to the receipt-extraction service. The service
// takes raw OCR text and returns a structured receipt: parallel
// product-name and price lists plus a single purchase date, store
// address, and geocoded coordinates.
//
// The HTTP client is wrapped in a circuit breaker and a client-side
// rate limiter. Malformed service responses surface as
// *MalformedReceiptError so callers can decide whether to retry.
package extract
