// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hematlabs/hemat/internal/auth"
	"github.com/hematlabs/hemat/internal/middleware"
)

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	CORSOrigins      []string
	RateLimitReqs    int
	RateLimitWindow  time.Duration
	RateLimitDisable bool
}

// NewRouter assembles the chi router: global middleware, public health
// and metrics endpoints, and the authenticated /api/v1 data routes.
func NewRouter(cfg RouterConfig, handler *Handler, authmw *auth.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))
	r.Use(middleware.Compression)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.RateLimitReqs,
			Window:   cfg.RateLimitWindow,
			Disabled: cfg.RateLimitDisable,
		}))

		r.Get("/health", handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth)

			r.Post("/receipts", handler.ProcessReceipt)
			r.Get("/recommendations", handler.Recommendations)
			r.Post("/rank", handler.Rank)
			r.Get("/records", handler.Records)
		})
	})

	return r
}
