// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package ledger

import "fmt"

// DatasetError indicates the ledger file is missing, empty, malformed, or
// lacks a required column. It is raised before any computation proceeds.
type DatasetError struct {
	// Path is the ledger file path.
	Path string

	// Column is the missing or malformed column name, if the failure is
	// column-specific.
	Column string

	// Reason is a human-readable description of the failure.
	Reason string
}

// Error implements the error interface.
func (e *DatasetError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("dataset %s: column %q: %s", e.Path, e.Column, e.Reason)
	}
	return fmt.Sprintf("dataset %s: %s", e.Path, e.Reason)
}

// UserNotFoundError indicates the target uid has no rows in the ledger or
// in the similarity cohort.
type UserNotFoundError struct {
	UID string
}

// Error implements the error interface.
func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("uid %q not found in purchase history", e.UID)
}
