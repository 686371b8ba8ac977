// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package validation provides request struct validation using
// go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with custom rules for
// Hemat identifiers and translates field errors into the API error
// format used by the HTTP handlers.
//
//	type RankRequest struct {
//	    Products  []string `validate:"required,min=1,dive,required"`
//	    Longitude float64  `validate:"longitude"`
//	    Latitude  float64  `validate:"latitude"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Custom tags registered on top of the built-ins:
//   - uid: a Hemat user identifier (lowercase base36, 20-40 characters)
package validation
