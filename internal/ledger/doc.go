// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package ledger loads, validates, and appends to the purchase-history
// ledger: a flat CSV file with one row per purchased item.
//
// The ledger is the engine's sole persistent input and output. Every
// pipeline stage re-validates the ledger independently before computing
// anything; there is no shared cached validation state. Writes go through
// Append, which serializes writers per file path and replaces the file
// atomically so a concurrent reader never observes a partial write.
//
// Required columns: uid, product_name, product_type, purchase_date,
// purchase_price, long, lat. Additional columns (such as age) are carried
// through load and rewrite untouched.
package ledger
