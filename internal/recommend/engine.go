// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/kinoscope/internal/config"
	"github.com/tomtom215/kinoscope/internal/logging"
	"github.com/tomtom215/kinoscope/internal/metrics"
	"github.com/tomtom215/kinoscope/internal/models"
	"github.com/tomtom215/kinoscope/internal/store"
)

// CatalogClient is the external catalog the engine falls back to. Search,
// related, and similar return light records; GetDetails returns a full one.
type CatalogClient interface {
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
	GetDetails(ctx context.Context, id int64, kind models.MediaKind) (*models.CatalogItem, error)
	GetRelated(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error)
	GetSimilar(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error)
}

// Engine orchestrates resolution, ranking, enrichment, and reasoning.
// Safe for concurrent use; all mutable state is per-request.
type Engine struct {
	store    *store.Store
	client   CatalogClient
	resolver *Resolver
	ranker   *Ranker
	cfg      config.RecommendConfig
}

// NewEngine builds an engine over the given store and external client.
// The store may be empty (degraded mode); every query then takes the
// external path.
func NewEngine(s *store.Store, client CatalogClient, cfg config.RecommendConfig) *Engine {
	return &Engine{
		store:    s,
		client:   client,
		resolver: NewResolver(s, cfg.FuzzyThreshold),
		ranker:   NewRanker(s, cfg.MaxResults),
		cfg:      cfg,
	}
}

// Recommend runs the full pipeline for one query. knownID is optional; when
// non-zero it identifies the source directly (the query came from a prior
// result's own id) and the external phase skips its search step. An empty
// result is a valid answer. The returned error is non-nil only when the
// context was cancelled.
func (e *Engine) Recommend(ctx context.Context, query string, knownID int64, knownKind models.MediaKind) (*models.RecommendationResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	if result, ok := e.localAttempt(ctx, query); ok {
		metrics.RecommendRequestsTotal.WithLabelValues("local").Inc()
		e.applyReasoning(result)
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := e.externalAttempt(ctx, query, knownID, knownKind)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(result.Recommendations) == 0 {
		metrics.RecommendRequestsTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.RecommendRequestsTotal.WithLabelValues("external").Inc()
	}
	e.applyReasoning(result)
	return result, nil
}

// localAttempt resolves and ranks against the local store. The second
// return value reports whether the local phase produced recommendations;
// false means fall through to the external phase.
func (e *Engine) localAttempt(ctx context.Context, query string) (*models.RecommendationResult, bool) {
	if !e.store.Ready() {
		return nil, false
	}

	index, ok := e.resolver.Resolve(query)
	if !ok {
		return nil, false
	}

	candidates, err := e.ranker.Rank(index)
	if err != nil {
		// Resolver handed out this index, so reaching here is a bug in
		// the store wiring. Degrade to the external path anyway.
		logger := logging.Ctx(ctx)
		logger.Error().Err(err).Str("query", query).Msg("local ranking failed")
		return nil, false
	}
	if len(candidates) == 0 {
		return nil, false
	}

	recs := e.enrichLocal(ctx, candidates)
	if len(recs) == 0 {
		return nil, false
	}

	entries := e.store.Entries()
	source := e.localSource(ctx, entries[index])
	return &models.RecommendationResult{
		Recommendations: recs,
		Source:          source,
	}, true
}

// enrichLocal upgrades ranked local candidates to full records with bounded
// concurrent detail lookups, preserving rank order. A failed lookup keeps
// the candidate as a minimal record instead of dropping it.
func (e *Engine) enrichLocal(ctx context.Context, candidates []int) []models.Recommendation {
	entries := e.store.Entries()
	recs := make([]models.Recommendation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.EnrichConcurrency)
	for i, idx := range candidates {
		entry := entries[idx]
		g.Go(func() error {
			item, err := e.client.GetDetails(gctx, entry.TMDBID, models.KindMovie)
			if err != nil {
				metrics.EnrichmentFailures.Inc()
				logger := logging.Ctx(gctx)
				logger.Debug().Err(err).
					Str("title", entry.Title).
					Int64("tmdb_id", entry.TMDBID).
					Msg("detail lookup failed, keeping minimal record")
				recs[i] = models.Recommendation{CatalogItem: minimalItem(entry)}
				return nil
			}
			recs[i] = models.Recommendation{CatalogItem: *item}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	if ctx.Err() != nil {
		return nil
	}
	return recs
}

// localSource fetches full details for the resolved source entry, falling
// back to a minimal record.
func (e *Engine) localSource(ctx context.Context, entry store.Entry) *models.CatalogItem {
	item, err := e.client.GetDetails(ctx, entry.TMDBID, models.KindMovie)
	if err != nil {
		metrics.EnrichmentFailures.Inc()
		minimal := minimalItem(entry)
		return &minimal
	}
	return item
}

// minimalItem synthesizes a catalog item from what the local store knows.
func minimalItem(entry store.Entry) models.CatalogItem {
	return models.CatalogItem{
		ID:     entry.TMDBID,
		Title:  entry.Title,
		Kind:   models.KindMovie,
		Poster: models.PlaceholderPoster,
		Rating: 0,
	}
}

// externalAttempt queries the live catalog: resolve a source, fetch its
// related items (falling back to similar), and upgrade everything to full
// records where possible. Always returns a result, possibly empty.
func (e *Engine) externalAttempt(ctx context.Context, query string, knownID int64, knownKind models.MediaKind) *models.RecommendationResult {
	result := &models.RecommendationResult{
		Recommendations: []models.Recommendation{},
	}

	source := e.externalSource(ctx, query, knownID, knownKind)
	if source == nil {
		return result
	}
	result.Source = source

	candidates, err := e.client.GetRelated(ctx, source.ID, source.Kind)
	if err != nil {
		logger := logging.Ctx(ctx)
		logger.Warn().Err(err).Int64("id", source.ID).Msg("related lookup failed")
		candidates = nil
	}
	// Related is curated and sparse; similar is always populated.
	if len(candidates) == 0 {
		candidates, err = e.client.GetSimilar(ctx, source.ID, source.Kind)
		if err != nil {
			logger := logging.Ctx(ctx)
			logger.Warn().Err(err).Int64("id", source.ID).Msg("similar lookup failed")
			candidates = nil
		}
	}

	if len(candidates) > e.cfg.MaxResults {
		candidates = candidates[:e.cfg.MaxResults]
	}
	result.Recommendations = e.enrichExternal(ctx, candidates)
	return result
}

// externalSource resolves the source item for the external phase. A known
// id skips the search step entirely; otherwise the top search result wins.
// Either way a detail upgrade failure keeps the lighter record.
func (e *Engine) externalSource(ctx context.Context, query string, knownID int64, knownKind models.MediaKind) *models.CatalogItem {
	if knownID != 0 {
		item, err := e.client.GetDetails(ctx, knownID, knownKind)
		if err == nil {
			return item
		}
		logger := logging.Ctx(ctx)
		logger.Warn().Err(err).Int64("known_id", knownID).Msg("known id lookup failed, falling back to search")
	}

	results, err := e.client.Search(ctx, query)
	if err != nil {
		logger := logging.Ctx(ctx)
		logger.Warn().Err(err).Str("query", query).Msg("external search failed")
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	light := results[0]
	full, err := e.client.GetDetails(ctx, light.ID, light.Kind)
	if err != nil {
		return &light
	}
	return full
}

// enrichExternal upgrades light candidates to full records with bounded
// concurrent detail lookups, preserving order. A failed upgrade keeps the
// light record.
func (e *Engine) enrichExternal(ctx context.Context, candidates []models.CatalogItem) []models.Recommendation {
	recs := make([]models.Recommendation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.EnrichConcurrency)
	for i, light := range candidates {
		g.Go(func() error {
			item, err := e.client.GetDetails(gctx, light.ID, light.Kind)
			if err != nil {
				recs[i] = models.Recommendation{CatalogItem: light}
				return nil
			}
			recs[i] = models.Recommendation{CatalogItem: *item}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	if ctx.Err() != nil {
		return []models.Recommendation{}
	}
	return recs
}

// applyReasoning attaches a justification to every recommendation when a
// source item is present. Without a source the reasoning step is skipped.
func (e *Engine) applyReasoning(result *models.RecommendationResult) {
	if result.Source == nil || len(result.Recommendations) == 0 {
		return
	}
	for i := range result.Recommendations {
		result.Recommendations[i].Reasoning = Explain(result.Source, &result.Recommendations[i].CatalogItem)
	}
}
