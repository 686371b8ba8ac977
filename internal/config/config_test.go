// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Env-var driven tests mutate process state and must not run in
// parallel with each other.

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.DefaultLongitude != 106.8272 || cfg.Server.DefaultLatitude != -6.1751 {
		t.Errorf("default coords = %v/%v, want Jakarta", cfg.Server.DefaultLongitude, cfg.Server.DefaultLatitude)
	}
	if cfg.Ledger.Path == "" {
		t.Error("ledger path empty")
	}
	if cfg.Recommend.NumRecommendations != 8 {
		t.Errorf("num recommendations = %d, want 8", cfg.Recommend.NumRecommendations)
	}
	if cfg.Recommend.TargetUID == "" {
		t.Error("target uid default empty")
	}
	if cfg.Archive.GCInterval != 10*time.Minute {
		t.Errorf("gc interval = %v", cfg.Archive.GCInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LEDGER_PATH", "/tmp/ledger.csv")
	t.Setenv("EXTRACT_URL", "http://extractor:8000")
	t.Setenv("SECURITY_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Ledger.Path != "/tmp/ledger.csv" {
		t.Errorf("ledger path = %q", cfg.Ledger.Path)
	}
	if cfg.Extract.URL != "http://extractor:8000" {
		t.Errorf("extract url = %q", cfg.Extract.URL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7070
  environment: staging
ledger:
  path: /srv/history.csv
recommend:
  target_uid: ""
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Ledger.Path != "/srv/history.csv" {
		t.Errorf("ledger path = %q", cfg.Ledger.Path)
	}
	if cfg.Recommend.TargetUID != "" {
		t.Errorf("target uid = %q, want empty", cfg.Recommend.TargetUID)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("port = %d, want env override 6060", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad latitude", func(c *Config) { c.Server.DefaultLatitude = 95 }, true},
		{"bad longitude", func(c *Config) { c.Server.DefaultLongitude = -200 }, true},
		{"empty ledger path", func(c *Config) { c.Ledger.Path = "" }, true},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, true},
		{"archive without path", func(c *Config) { c.Archive.Path = "" }, true},
		{
			"production requires secret",
			func(c *Config) {
				c.Server.Environment = "production"
				c.Extract.URL = "http://extractor:8000"
			},
			true,
		},
		{
			"production fully configured",
			func(c *Config) {
				c.Server.Environment = "production"
				c.Extract.URL = "http://extractor:8000"
				c.Security.JWTSecret = strings.Repeat("s", 32)
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"SERVER_PORT", "server.port"},
		{"EXTRACT_API_KEY", "extract.api_key"},
		{"SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"RECOMMEND_TARGET_UID", "recommend.target_uid"},
		{"PATH", ""},
		{"HOME", ""},
		{"SERVER_", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
