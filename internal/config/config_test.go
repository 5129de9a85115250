// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("default tmdb base url = %q", cfg.TMDB.BaseURL)
	}
	if cfg.Recommend.MaxResults != 10 {
		t.Errorf("default max results = %d, want 10", cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.FuzzyThreshold != 0.85 {
		t.Errorf("default fuzzy threshold = %g, want 0.85", cfg.Recommend.FuzzyThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"TMDB_API_KEY", "tmdb.api_key"},
		{"SERVER_PORT", "server.port"},
		{"STORE_CATALOG_PATH", "store.catalog_path"},
		{"RECOMMEND_FUZZY_THRESHOLD", "recommend.fuzzy_threshold"},
		{"API_CORS_ORIGINS", "api.cors_origins"},
		{"LOGGING_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
		{"UNRELATED_THING", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TMDB_API_KEY", "secret")
	t.Setenv("RECOMMEND_MAX_RESULTS", "5")
	t.Setenv("API_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.TMDB.APIKey)
	}
	if cfg.Recommend.MaxResults != 5 {
		t.Errorf("max results = %d, want 5", cfg.Recommend.MaxResults)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[0] != want[0] || cfg.API.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v, want %v", cfg.API.CORSOrigins, want)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 8181\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("port = %d, want 8181 from config file", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }},
		{"empty tmdb base url", func(c *Config) { c.TMDB.BaseURL = "" }},
		{"zero tmdb timeout", func(c *Config) { c.TMDB.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.TMDB.MaxRetries = -1 }},
		{"zero max results", func(c *Config) { c.Recommend.MaxResults = 0 }},
		{"threshold above one", func(c *Config) { c.Recommend.FuzzyThreshold = 1.5 }},
		{"threshold below zero", func(c *Config) { c.Recommend.FuzzyThreshold = -0.1 }},
		{"zero enrich concurrency", func(c *Config) { c.Recommend.EnrichConcurrency = 0 }},
		{"zero rate limit", func(c *Config) { c.API.RateLimitReqs = 0 }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestValidateAllowsMissingAPIKey(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.TMDB.APIKey = ""
	cfg.Server.RequestTimeout = 30 * time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("missing api key rejected: %v", err)
	}
}
