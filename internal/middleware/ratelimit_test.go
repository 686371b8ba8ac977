// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hematlabs/hemat/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited"))

	handler := RateLimit(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", codes[2])
	}

	after := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited"))
	if after-before != 1 {
		t.Errorf("rate limit hit counter delta = %v, want 1", after-before)
	}
}

func TestRateLimitResponseBody(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Requests: 1, Window: time.Minute})(okHandler())

	for i := range 2 {
		req := httptest.NewRequest(http.MethodGet, "/body", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 1 {
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if rec.Body.String() != `{"error":"rate limit exceeded"}` {
				t.Errorf("body = %q", rec.Body.String())
			}
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	handler := RateLimit(RateLimitConfig{Requests: 1, Window: time.Minute, Disabled: true})(okHandler())

	for range 10 {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.RemoteAddr = "203.0.113.11:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request with %d", rec.Code)
		}
	}
}
