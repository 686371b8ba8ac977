// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package config

import (
	"errors"
	"fmt"
)

// minJWTSecretLength matches the auth package requirement.
const minJWTSecretLength = 32

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks the configuration for values that would fail at
// runtime. Production mode additionally requires a JWT secret and an
// extraction-service URL.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range [1,65535]", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}
	if c.Server.DefaultLatitude < -90 || c.Server.DefaultLatitude > 90 {
		errs = append(errs, fmt.Errorf("server.default_latitude %v out of range [-90,90]", c.Server.DefaultLatitude))
	}
	if c.Server.DefaultLongitude < -180 || c.Server.DefaultLongitude > 180 {
		errs = append(errs, fmt.Errorf("server.default_longitude %v out of range [-180,180]", c.Server.DefaultLongitude))
	}
	if c.Server.RateLimitReqs <= 0 {
		errs = append(errs, errors.New("server.rate_limit_reqs must be positive"))
	}

	if c.Ledger.Path == "" {
		errs = append(errs, errors.New("ledger.path is required"))
	}

	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength))
	}

	if c.Archive.Enabled && c.Archive.Path == "" {
		errs = append(errs, errors.New("archive.path is required when the archive is enabled"))
	}
	if c.Archive.Enabled && c.Archive.GCInterval <= 0 {
		errs = append(errs, errors.New("archive.gc_interval must be positive"))
	}

	if c.Recommend.NumRecommendations <= 0 {
		errs = append(errs, errors.New("recommend.num_recommendations must be positive"))
	}

	if c.IsProduction() {
		if c.Security.JWTSecret == "" {
			errs = append(errs, errors.New("security.jwt_secret is required in production"))
		}
		if c.Extract.URL == "" {
			errs = append(errs, errors.New("extract.url is required in production"))
		}
	}

	return errors.Join(errs...)
}
