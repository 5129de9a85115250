// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/kinoscope/internal/config"
)

// NewRouter builds the HTTP routing tree.
//
// Health and metrics sit outside the versioned API group so probes and
// scrapes bypass rate limiting and per-request instrumentation.
func NewRouter(h *Handler, cfg config.APIConfig) http.Handler {
	m := NewMiddleware(&MiddlewareConfig{
		CORSAllowedOrigins: cfg.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.RateLimitReqs,
		RateLimitWindow:    cfg.RateLimitWindow,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(RequestID())
	r.Use(chimiddleware.Recoverer)
	r.Use(SecurityHeaders())
	r.Use(m.CORS())

	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.RateLimit())
		r.Use(RequestLogging())
		r.Use(Instrument())

		r.Post("/recommend", h.Recommend)
		r.Get("/titles", h.Titles)
		r.Get("/search", h.Search)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Ready)
			r.Get("/live", h.Live)
			r.Get("/ready", h.Ready)
		})

		r.Route("/discover", func(r chi.Router) {
			r.Get("/trending", h.Trending)
			r.Get("/now-playing", h.NowPlaying)
			r.Get("/popular-tv", h.PopularTV)
			r.Get("/top-rated", h.TopRated)
			r.Get("/upcoming", h.Upcoming)
		})
	})

	return r
}
