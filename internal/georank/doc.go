// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package georank orders candidate purchase rows by geographic proximity
// to the caller, then by purchase recency, then by price.
//
// The output is the product of the recommendation pipeline: the rows a
// user should act on, closest and cheapest first, with identity-revealing
// columns stripped.
package georank
