// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/hematlabs/hemat/internal/logging"
	"github.com/hematlabs/hemat/internal/validation"
)

// maxRequestBodySize caps request bodies; OCR text runs a few KB, so
// 1 MiB leaves ample headroom.
const maxRequestBodySize = 1 << 20

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the serialized error payload.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *APIResponse) {
	response.Metadata.Timestamp = time.Now().UTC()
	response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(response)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("failed to write response")
	}
}

// respondData wraps payload in a success envelope.
func respondData(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	respondJSON(w, r, status, &APIResponse{Status: "success", Data: payload})
}

// respondError sends an error envelope and logs the underlying error.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *APIError, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().
			Err(err).
			Str("code", apiErr.Code).
			Int("status", status).
			Msg("request failed")
	}
	respondJSON(w, r, status, &APIResponse{Status: "error", Error: apiErr})
}

// generateETag hashes the payload with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// decodeRequest decodes a JSON body into v with a size cap, then
// validates it. Returns false after writing an error response.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    "INVALID_JSON",
			Message: "request body is not valid JSON",
		}, err)
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil)
		return false
	}
	return true
}
