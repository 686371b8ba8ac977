// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package config

import (
	"time"

	"github.com/hematlabs/hemat/internal/cohort"
)

// Config is the root configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Ledger    LedgerConfig    `koanf:"ledger"`
	Extract   ExtractConfig   `koanf:"extract"`
	Archive   ArchiveConfig   `koanf:"archive"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds the HTTP server settings. DefaultLongitude and
// DefaultLatitude are the caller coordinates assumed when a request
// carries none; they default to central Jakarta.
type ServerConfig struct {
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port"`
	Timeout          time.Duration `koanf:"timeout"`
	Environment      string        `koanf:"environment"`
	DefaultLongitude float64       `koanf:"default_longitude"`
	DefaultLatitude  float64       `koanf:"default_latitude"`
	CORSOrigins      []string      `koanf:"cors_origins"`
	RateLimitReqs    int           `koanf:"rate_limit_reqs"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
}

// LedgerConfig points at the CSV purchase ledger.
type LedgerConfig struct {
	Path string `koanf:"path"`
}

// ExtractConfig holds the extraction-service connection settings.
type ExtractConfig struct {
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Retries           int           `koanf:"retries"`
}

// ArchiveConfig holds the BadgerDB receipt archive settings.
type ArchiveConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecurityConfig holds the JWT settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// RecommendConfig holds the recommender tunables.
type RecommendConfig struct {
	NumRecommendations int    `koanf:"num_recommendations"`
	TargetUID          string `koanf:"target_uid"`
	ExtractRetries     int    `koanf:"extract_retries"`
}

// LoggingConfig holds the log settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
			// Central Jakarta, matching the deployment's user base.
			DefaultLongitude: 106.8272,
			DefaultLatitude:  -6.1751,
			Environment:      "development",
			CORSOrigins:      []string{"*"},
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
		},
		Ledger: LedgerConfig{
			Path: "/data/purchase_history.csv",
		},
		Extract: ExtractConfig{
			URL:               "",
			APIKey:            "",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			Retries:           3,
		},
		Archive: ArchiveConfig{
			Enabled:    true,
			Path:       "/data/receipts",
			GCInterval: 10 * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
		},
		Recommend: RecommendConfig{
			NumRecommendations: cohort.DefaultNumRecommendations,
			TargetUID:          cohort.DefaultTargetUID,
			ExtractRetries:     3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
