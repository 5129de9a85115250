// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tomtom215/kinoscope/internal/logging"
	"github.com/tomtom215/kinoscope/internal/models"
	"github.com/tomtom215/kinoscope/internal/recommend"
	"github.com/tomtom215/kinoscope/internal/store"
)

// validate is the shared request validator.
var validate = validator.New()

// maxRequestBodySize limits request body reads.
const maxRequestBodySize = 1 << 20 // 1 MB

// searchResultLimit caps local title search responses.
const searchResultLimit = 20

// Handler handles the recommendation API endpoints.
type Handler struct {
	engine         *recommend.Engine
	store          *store.Store
	discovery      DiscoveryClient
	requestTimeout time.Duration
}

// DiscoveryClient is the subset of the external catalog the discovery
// endpoints proxy to.
type DiscoveryClient interface {
	Trending(ctx context.Context) ([]models.CatalogItem, error)
	NowPlaying(ctx context.Context) ([]models.CatalogItem, error)
	PopularTV(ctx context.Context) ([]models.CatalogItem, error)
	TopRated(ctx context.Context) ([]models.CatalogItem, error)
	Upcoming(ctx context.Context) ([]models.CatalogItem, error)
}

// NewHandler creates the API handler.
func NewHandler(engine *recommend.Engine, s *store.Store, discovery DiscoveryClient, requestTimeout time.Duration) *Handler {
	return &Handler{
		engine:         engine,
		store:          s,
		discovery:      discovery,
		requestTimeout: requestTimeout,
	}
}

// RecommendRequest is the POST /api/v1/recommend request body.
type RecommendRequest struct {
	// Title is the free-text query.
	Title string `json:"title" validate:"required,max=200"`

	// KnownID optionally identifies the source directly, skipping search.
	KnownID int64 `json:"known_id,omitempty" validate:"omitempty,min=1"`

	// KnownKind is the media kind for KnownID ("movie" or "series").
	KnownKind string `json:"known_kind,omitempty" validate:"omitempty,oneof=movie series tv"`
}

// Recommend handles POST /api/v1/recommend.
// An empty recommendation list is a valid 200 response, not an error.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		rw.ValidationError("Request validation failed", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.engine.Recommend(ctx, strings.TrimSpace(req.Title), req.KnownID, models.ParseMediaKind(req.KnownKind))
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Str("title", req.Title).Msg("recommendation cancelled")
		rw.InternalError("Recommendation request did not complete")
		return
	}

	rw.SuccessWithCount(result, len(result.Recommendations))
}

// seedGenres is the fixed genre list clients mix into title autocomplete,
// so a genre name is always an accepted query.
var seedGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "History", "Horror", "Music", "Mystery",
	"Romance", "Science Fiction", "Sci-Fi", "TV Movie", "Thriller", "War",
	"Western",
}

// TitlesResponse is the GET /api/v1/titles payload.
type TitlesResponse struct {
	// Titles is the local catalog, in matrix order.
	Titles []titlePayload `json:"titles"`

	// Genres is the fixed genre seed list.
	Genres []string `json:"genres"`
}

// Titles handles GET /api/v1/titles: the local catalog titles plus the
// genre seed list, for client-side autocomplete.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	entries := h.store.Entries()
	titles := make([]titlePayload, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, titlePayload{Title: e.Title, TMDBID: e.TMDBID})
	}
	rw.SuccessWithCount(TitlesResponse{Titles: titles, Genres: seedGenres}, len(titles))
}

// titlePayload is one catalog title in the /titles response.
type titlePayload struct {
	Title  string `json:"title"`
	TMDBID int64  `json:"tmdb_id"`
}

// Search handles GET /api/v1/search?q=: case-insensitive substring search
// over the local catalog titles.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		rw.BadRequest("Query parameter 'q' is required")
		return
	}

	needle := strings.ToLower(query)
	matches := make([]titlePayload, 0, searchResultLimit)
	for _, e := range h.store.Entries() {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			matches = append(matches, titlePayload{Title: e.Title, TMDBID: e.TMDBID})
			if len(matches) == searchResultLimit {
				break
			}
		}
	}
	rw.SuccessWithCount(matches, len(matches))
}

// decodeBody decodes a bounded JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// validationDetails converts validator errors to a field-to-problem map for
// the error response body.
func validationDetails(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
