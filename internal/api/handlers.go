// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package api

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/auth"
	"github.com/hematlabs/hemat/internal/georank"
	"github.com/hematlabs/hemat/internal/logging"
	"github.com/hematlabs/hemat/internal/pipeline"
	"github.com/hematlabs/hemat/internal/store"
)

// Pipeline is the orchestrator surface the handlers need.
type Pipeline interface {
	ProcessReceipt(ctx context.Context, uid, email, ocrText string, lon, lat float64) (*pipeline.Result, error)
	Recommend(ctx context.Context, uid string) ([]string, error)
	Rank(ctx context.Context, uid string, products []string, lon, lat float64) ([]georank.RankedRow, error)
}

// Archive is the receipt archive surface the handlers need.
type Archive interface {
	ListByUser(ctx context.Context, uid string) ([]store.ArchivedReceipt, error)
}

// Handler holds the HTTP handlers for the Hemat API.
type Handler struct {
	pipeline Pipeline
	archive  Archive

	ledgerPath string
	defaultLon float64
	defaultLat float64

	logger zerolog.Logger
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// LedgerPath is checked by the health endpoint.
	LedgerPath string

	// DefaultLongitude and DefaultLatitude are used when a request
	// omits caller coordinates.
	DefaultLongitude float64
	DefaultLatitude  float64
}

// NewHandler creates a Handler. archive may be nil when archiving is
// disabled; GET /records then returns 404.
func NewHandler(cfg HandlerConfig, p Pipeline, archive Archive, logger zerolog.Logger) *Handler {
	return &Handler{
		pipeline:   p,
		archive:    archive,
		ledgerPath: cfg.LedgerPath,
		defaultLon: cfg.DefaultLongitude,
		defaultLat: cfg.DefaultLatitude,
		logger:     logger,
	}
}

type receiptRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	OCRText   string   `json:"ocr_text" validate:"required,min=3"`
	Longitude *float64 `json:"long" validate:"omitempty,longitude"`
	Latitude  *float64 `json:"lat" validate:"omitempty,latitude"`
}

type rankRequest struct {
	Products  []string `json:"products" validate:"required,min=1,dive,required"`
	Longitude *float64 `json:"long" validate:"omitempty,longitude"`
	Latitude  *float64 `json:"lat" validate:"omitempty,latitude"`
}

// coordinates resolves optional request coordinates against the
// configured defaults.
func (h *Handler) coordinates(lon, lat *float64) (float64, float64) {
	outLon, outLat := h.defaultLon, h.defaultLat
	if lon != nil {
		outLon = *lon
	}
	if lat != nil {
		outLat = *lat
	}
	return outLon, outLat
}

// ProcessReceipt handles POST /api/v1/receipts: extract the OCR text,
// append the purchases, then recommend and rank for the caller.
func (h *Handler) ProcessReceipt(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, &APIError{
			Code:    "UNAUTHORIZED",
			Message: "missing authentication",
		}, nil)
		return
	}

	var req receiptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	lon, lat := h.coordinates(req.Longitude, req.Latitude)
	result, err := h.pipeline.ProcessReceipt(r.Context(), uid, req.Email, req.OCRText, lon, lat)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	logger := logging.Ctx(r.Context())
	logger.Info().
		Str("uid", uid).
		Str("email", logging.MaskEmail(req.Email)).
		Int("items", len(result.Receipt.ProductNames)).
		Msg("receipt processed")

	respondData(w, r, http.StatusCreated, result)
}

// Recommendations handles GET /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, &APIError{
			Code:    "UNAUTHORIZED",
			Message: "missing authentication",
		}, nil)
		return
	}

	recommendations, err := h.pipeline.Recommend(r.Context(), uid)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
	})
}

// Rank handles POST /api/v1/rank: order a product list by proximity
// to the caller.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, &APIError{
			Code:    "UNAUTHORIZED",
			Message: "missing authentication",
		}, nil)
		return
	}

	var req rankRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	lon, lat := h.coordinates(req.Longitude, req.Latitude)
	ranked, err := h.pipeline.Rank(r.Context(), uid, req.Products, lon, lat)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"ranked": ranked,
	})
}

// Records handles GET /api/v1/records: the caller's archived receipts.
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, &APIError{
			Code:    "UNAUTHORIZED",
			Message: "missing authentication",
		}, nil)
		return
	}

	if h.archive == nil {
		respondError(w, r, http.StatusNotFound, &APIError{
			Code:    "ARCHIVE_DISABLED",
			Message: "receipt archive is not enabled",
		}, nil)
		return
	}

	records, err := h.archive.ListByUser(r.Context(), uid)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, &APIError{
			Code:    "ARCHIVE_ERROR",
			Message: "failed to read archived receipts",
		}, err)
		return
	}

	respondData(w, r, http.StatusOK, map[string]interface{}{
		"records": records,
	})
}

// Health handles GET /api/v1/health. Readiness means the purchase
// ledger file is present.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if _, err := os.Stat(h.ledgerPath); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondData(w, r, code, map[string]interface{}{
		"status": status,
	})
}
