// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package rfm scores every user in the purchase ledger by
// recency/frequency/monetary behavior and derives a categorical customer
// segment from the combined quartile score.
//
// "Now" is the maximum purchase_date across the whole ledger, not wall-clock
// time, so a given ledger always produces the same profiles.
//
// Quartile binning is asymmetric on purpose: recency hard-fails when the
// user population is too uniform to form four quantile groups, while
// frequency and monetary silently collapse duplicate bin boundaries. The
// policy is configurable per measure so both branches are testable.
package rfm
