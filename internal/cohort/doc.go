// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package cohort proposes products a user has not bought yet, based on
// behaviorally similar users in a comparison cohort.
//
// Each cohort user is reduced to the comma-space concatenation of their
// purchased product types (order of appearance preserved). Those texts are
// TF-IDF vectorized over the cohort vocabulary, a full pairwise cosine
// similarity matrix is computed, and the target user's most similar peers
// contribute the products the target has not purchased. The accumulated
// novel items keep insertion order so the final truncation is reproducible
// run to run.
package cohort
