// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/kinoscope/internal/models"
)

// Discovery endpoints proxy curated lists from the external catalog. They
// share one shape: no parameters in, a list of light catalog items out.

// Trending handles GET /api/v1/discover/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	h.discover(w, r, "trending", h.discovery.Trending)
}

// NowPlaying handles GET /api/v1/discover/now-playing.
func (h *Handler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	h.discover(w, r, "now_playing", h.discovery.NowPlaying)
}

// PopularTV handles GET /api/v1/discover/popular-tv.
func (h *Handler) PopularTV(w http.ResponseWriter, r *http.Request) {
	h.discover(w, r, "popular_tv", h.discovery.PopularTV)
}

// TopRated handles GET /api/v1/discover/top-rated.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	h.discover(w, r, "top_rated", h.discovery.TopRated)
}

// Upcoming handles GET /api/v1/discover/upcoming.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.discover(w, r, "upcoming", h.discovery.Upcoming)
}

// discover runs one discovery fetch with the request timeout applied.
func (h *Handler) discover(w http.ResponseWriter, r *http.Request, name string, fetch func(context.Context) ([]models.CatalogItem, error)) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	items, err := fetch(ctx)
	if err != nil {
		rw.ExternalServiceError(name, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	rw.SuccessWithCount(items, len(items))
}
