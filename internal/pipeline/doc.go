// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package pipeline runs the end-to-end receipt flow: extract a
// structured receipt from OCR text, archive it, append its line items
// to the purchase ledger, then produce recommendations and the
// geo-ranked result table for the buyer. The recommendation and
// ranking stages are also exposed standalone.
package pipeline
