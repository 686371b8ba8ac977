// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package store archives raw extracted receipts per user in BadgerDB.
// Each archived receipt keeps the OCR text, the scanned total amount,
// and the structured extraction result, keyed by uid and a generated
// receipt ID.
package store
