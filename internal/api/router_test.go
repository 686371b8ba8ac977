// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/hematlabs/hemat/internal/auth"
	"github.com/hematlabs/hemat/internal/logging"
)

const routerTestSecret = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T, p Pipeline) (http.Handler, string) {
	t.Helper()

	manager, err := auth.NewManager(routerTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	token, err := manager.GenerateToken(testUID, "alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	logger := logging.NewTestLogger(os.Stderr)
	handler := NewHandler(HandlerConfig{
		DefaultLongitude: 106.8272,
		DefaultLatitude:  -6.1751,
	}, p, nil, logger)

	router := NewRouter(RouterConfig{
		CORSOrigins:      []string{"*"},
		RateLimitDisable: true,
	}, handler, auth.NewMiddleware(manager, logger))

	return router, token
}

func TestRouterRequiresAuth(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &mockPipeline{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRouterAuthenticatedFlow(t *testing.T) {
	t.Parallel()

	p := &mockPipeline{
		recommendFn: func(_ context.Context, uid string) ([]string, error) {
			if uid != testUID {
				t.Errorf("uid from token = %q, want %q", uid, testUID)
			}
			return []string{"Roti Bakar"}, nil
		},
	}
	router, token := newTestRouter(t, p)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestRouterHealthIsPublic(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &mockPipeline{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	// No ledger file configured, so degraded but reachable without auth.
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &mockPipeline{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
