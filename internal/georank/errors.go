// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package georank

import "fmt"

// GeoRangeError indicates a coordinate outside the valid Earth range.
type GeoRangeError struct {
	// Coordinate is "latitude" or "longitude".
	Coordinate string

	// Value is the rejected coordinate value.
	Value float64

	// Min and Max bound the valid range.
	Min, Max float64
}

// Error implements the error interface.
func (e *GeoRangeError) Error() string {
	return fmt.Sprintf("%s %v is outside [%v, %v]", e.Coordinate, e.Value, e.Min, e.Max)
}

// PreconditionError indicates the ranker was invoked with an input that
// violates one of its hard preconditions, such as a recommended-product
// list whose length is not exactly the required count.
type PreconditionError struct {
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return "precondition violated: " + e.Reason
}
