// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/hematlabs/hemat/internal/extract"
	"github.com/hematlabs/hemat/internal/georank"
	"github.com/hematlabs/hemat/internal/ledger"
	"github.com/hematlabs/hemat/internal/pipeline"
	"github.com/hematlabs/hemat/internal/rfm"
)

// respondDomainError maps pipeline and engine errors onto HTTP
// statuses. Typed errors from the domain packages carry enough
// context for a useful client message; anything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		userNotFound *ledger.UserNotFoundError
		geoRange     *georank.GeoRangeError
		precondition *georank.PreconditionError
		binning      *rfm.BinningError
		malformed    *extract.MalformedReceiptError
		dataset      *ledger.DatasetError
	)

	switch {
	case errors.As(err, &userNotFound):
		respondError(w, r, http.StatusNotFound, &APIError{
			Code:    "USER_NOT_FOUND",
			Message: "no purchase history for this user",
		}, err)

	case errors.Is(err, pipeline.ErrInvalidEmail):
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    "INVALID_EMAIL",
			Message: "email address is malformed",
		}, err)

	case errors.As(err, &geoRange):
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    "COORDINATES_OUT_OF_RANGE",
			Message: geoRange.Error(),
		}, err)

	case errors.As(err, &precondition):
		respondError(w, r, http.StatusUnprocessableEntity, &APIError{
			Code:    "RANK_PRECONDITION_FAILED",
			Message: precondition.Error(),
		}, err)

	case errors.As(err, &binning):
		respondError(w, r, http.StatusUnprocessableEntity, &APIError{
			Code:    "SEGMENTATION_FAILED",
			Message: "purchase history is too uniform to segment",
		}, err)

	case errors.As(err, &malformed):
		respondError(w, r, http.StatusBadGateway, &APIError{
			Code:    "EXTRACTION_FAILED",
			Message: "receipt extraction service returned malformed data",
		}, err)

	case errors.As(err, &dataset):
		respondError(w, r, http.StatusInternalServerError, &APIError{
			Code:    "LEDGER_ERROR",
			Message: "purchase ledger is unavailable",
		}, err)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// 499 is nginx convention for client-closed requests.
		respondError(w, r, 499, &APIError{
			Code:    "REQUEST_CANCELED",
			Message: "request canceled",
		}, err)

	default:
		respondError(w, r, http.StatusInternalServerError, &APIError{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		}, err)
	}
}
