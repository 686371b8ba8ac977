// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/hematlabs/hemat/internal/logging"
	"github.com/hematlabs/hemat/internal/metrics"
)

// RateLimitConfig configures per-IP rate limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Disabled bool
}

// RateLimit returns a per-IP rate limiter built on go-chi/httprate.
// Rejected requests get a 429 and are counted in the rate-limit
// metric under their route.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(endpointLabel(r))
			logger := logging.Ctx(r.Context())
			logger.Warn().
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
		}),
	)
}
