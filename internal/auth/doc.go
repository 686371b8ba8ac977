// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package auth issues and validates the bearer tokens that identify
// callers to the API. Tokens are HMAC-SHA256 JWTs carrying the caller's
// uid and email; the middleware places both in the request context.
package auth
