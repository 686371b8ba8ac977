// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package rfm

import (
	"fmt"
	"math"
	"sort"
)

// DuplicatePolicy controls what happens when quantile bin edges are
// degenerate (many users sharing the same value).
type DuplicatePolicy int

const (
	// DuplicateRaise fails binning with *BinningError when two quantile
	// edges coincide.
	DuplicateRaise DuplicatePolicy = iota

	// DuplicateCollapse drops coincident edges, producing fewer than four
	// effective categories.
	DuplicateCollapse
)

// String returns a human-readable policy name.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateRaise:
		return "raise"
	case DuplicateCollapse:
		return "collapse"
	default:
		return "unknown"
	}
}

// BinningError indicates a measure's values lack enough distinct quantile
// edges to form the requested number of bins under DuplicateRaise.
type BinningError struct {
	// Measure names the offending measure (recency, frequency, monetary).
	Measure string

	// Reason describes the degenerate input.
	Reason string
}

// Error implements the error interface.
func (e *BinningError) Error() string {
	return fmt.Sprintf("quantile binning failed for %s: %s", e.Measure, e.Reason)
}

// quartileBin assigns each value a label 1..k where k <= 4, with 1 for the
// lowest-value quartile, and returns the effective category count k. Bin
// edges are the 0/25/50/75/100th percentiles of the input (linear
// interpolation between order statistics).
//
// Under DuplicateRaise, coincident edges produce a *BinningError. Under
// DuplicateCollapse, coincident edges are dropped and fewer categories
// remain.
func quartileBin(measure string, values []float64, policy DuplicatePolicy) ([]int, int, error) {
	if len(values) == 0 {
		return nil, 0, &BinningError{Measure: measure, Reason: "no values to bin"}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, 5)
	for i := 0; i <= 4; i++ {
		edges = append(edges, quantile(sorted, float64(i)/4))
	}

	unique := dedupeEdges(edges)
	if len(unique) != len(edges) {
		if policy == DuplicateRaise {
			return nil, 0, &BinningError{
				Measure: measure,
				Reason:  fmt.Sprintf("bin edges %v are not unique", edges),
			}
		}
		edges = unique
	}

	if len(edges) < 2 {
		// All values identical; even collapsing cannot form a bin.
		if policy == DuplicateRaise {
			return nil, 0, &BinningError{Measure: measure, Reason: "all values are identical"}
		}
		labels := make([]int, len(values))
		for i := range labels {
			labels[i] = 1
		}
		return labels, 1, nil
	}

	labels := make([]int, len(values))
	for i, v := range values {
		labels[i] = binLabel(v, edges)
	}
	return labels, len(edges) - 1, nil
}

// quantile computes the q-th quantile (0..1) of sorted values using linear
// interpolation, matching the conventional definition for quartile splits.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// dedupeEdges removes coincident adjacent edges, keeping order.
func dedupeEdges(edges []float64) []float64 {
	out := edges[:0:0]
	for i, e := range edges {
		if i > 0 && e == out[len(out)-1] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// binLabel places v into 1-based bins bounded by edges. The first bin is
// closed on both ends; later bins are half-open (lo, hi].
func binLabel(v float64, edges []float64) int {
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i
		}
	}
	return len(edges) - 1
}
