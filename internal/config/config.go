// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Package config loads and validates application configuration using
// Koanf v2 with layered sources (defaults, optional YAML file, environment).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// TMDBConfig holds external catalog (TMDB) client settings.
type TMDBConfig struct {
	// APIKey is the TMDB v3 API key. Optional: when empty the service
	// still starts, but every external call reports "no data".
	APIKey string `koanf:"api_key"`

	// BaseURL is the TMDB API root. Overridable for testing.
	BaseURL string `koanf:"base_url"`

	// ImageBaseURL is the poster image root (w500 size).
	ImageBaseURL string `koanf:"image_base_url"`

	// BackdropBaseURL is the backdrop image root (w1280 size).
	BackdropBaseURL string `koanf:"backdrop_base_url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the client-side request rate cap (requests/second).
	RateLimit float64 `koanf:"rate_limit"`

	// MaxRetries bounds retries on HTTP 429 responses.
	MaxRetries int `koanf:"max_retries"`
}

// StoreConfig holds local similarity store settings.
type StoreConfig struct {
	// CatalogPath is the local catalog JSON file (ordered title/id entries).
	CatalogPath string `koanf:"catalog_path"`

	// SimilarityPath is the precomputed similarity matrix JSON file.
	SimilarityPath string `koanf:"similarity_path"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// MaxResults caps the recommendation list length.
	MaxResults int `koanf:"max_results"`

	// FuzzyThreshold is the minimum title similarity ratio (0-1) for a
	// fuzzy resolve. Kept high so only typos match, not related titles.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold"`

	// EnrichConcurrency bounds concurrent detail lookups per request.
	EnrichConcurrency int `koanf:"enrich_concurrency"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid values.
// A missing TMDB API key is allowed: the engine degrades to empty external
// results rather than refusing to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url must not be empty")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}
	if c.TMDB.MaxRetries < 0 {
		return fmt.Errorf("tmdb.max_retries must not be negative, got %d", c.TMDB.MaxRetries)
	}
	if c.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be at least 1, got %d", c.Recommend.MaxResults)
	}
	if c.Recommend.FuzzyThreshold < 0 || c.Recommend.FuzzyThreshold > 1 {
		return fmt.Errorf("recommend.fuzzy_threshold must be in [0,1], got %g", c.Recommend.FuzzyThreshold)
	}
	if c.Recommend.EnrichConcurrency < 1 {
		return fmt.Errorf("recommend.enrich_concurrency must be at least 1, got %d", c.Recommend.EnrichConcurrency)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}
	return nil
}
