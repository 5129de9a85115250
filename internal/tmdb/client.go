// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Package tmdb implements the external catalog client against the TMDB v3
// REST API.
//
// The client rate-limits itself below TMDB's documented cap, retries 429
// responses with exponential backoff, and maps the raw payloads to the
// service's own catalog model. All methods honor context cancellation.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/kinoscope/internal/config"
	"github.com/tomtom215/kinoscope/internal/logging"
	"github.com/tomtom215/kinoscope/internal/metrics"
	"github.com/tomtom215/kinoscope/internal/models"
)

var (
	// ErrNotConfigured is returned when no API key is set. The service
	// runs without external data in that case.
	ErrNotConfigured = errors.New("tmdb: api key not configured")

	// ErrNotFound is returned for HTTP 404 responses.
	ErrNotFound = errors.New("tmdb: not found")
)

// maxErrorBodySize limits how much of an error response body is read for
// error messages.
const maxErrorBodySize = 64 * 1024

// retryBaseDelay is the first 429 backoff delay; it doubles per attempt.
const retryBaseDelay = time.Second

// Result caps for list responses.
const (
	searchResultCap = 5
	listResultCap   = 10
)

// Client is a TMDB v3 API client.
type Client struct {
	baseURL         string
	apiKey          string
	imageBaseURL    string
	backdropBaseURL string
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxRetries      int
}

// NewClient creates a TMDB client from configuration. The client is safe
// for concurrent use.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		imageBaseURL:    cfg.ImageBaseURL,
		backdropBaseURL: cfg.BackdropBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		maxRetries: cfg.MaxRetries,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search queries /search/multi and returns movie and series results in API
// order. Person results and items without a title are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	payload, err := getJSON[listPayload](ctx, c, "search", "/search/multi", params)
	if err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, searchResultCap)
	for i := range payload.Results {
		p := &payload.Results[i]
		if p.MediaType != "movie" && p.MediaType != "tv" {
			continue
		}
		if p.displayTitle() == "" {
			continue
		}
		items = append(items, c.mapLight(p, models.KindMovie))
		if len(items) == searchResultCap {
			break
		}
	}
	return items, nil
}

// GetDetails fetches the full record for one item, with credits and
// keywords appended in a single round trip.
func (c *Client) GetDetails(ctx context.Context, id int64, kind models.MediaKind) (*models.CatalogItem, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords")

	path := fmt.Sprintf("/%s/%d", kindPath(kind), id)
	payload, err := getJSON[detailPayload](ctx, c, "details", path, params)
	if err != nil {
		return nil, err
	}

	item := c.mapFull(payload, kind)
	return &item, nil
}

// GetRelated fetches TMDB's recommendations for an item.
func (c *Client) GetRelated(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error) {
	path := fmt.Sprintf("/%s/%d/recommendations", kindPath(kind), id)
	return c.getList(ctx, "related", path, kind)
}

// GetSimilar fetches TMDB's similar-items list, the fallback when an item
// has no recommendations.
func (c *Client) GetSimilar(ctx context.Context, id int64, kind models.MediaKind) ([]models.CatalogItem, error) {
	path := fmt.Sprintf("/%s/%d/similar", kindPath(kind), id)
	return c.getList(ctx, "similar", path, kind)
}

// Trending fetches today's trending movies and series.
func (c *Client) Trending(ctx context.Context) ([]models.CatalogItem, error) {
	return c.getList(ctx, "trending", "/trending/all/day", models.KindMovie)
}

// NowPlaying fetches movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context) ([]models.CatalogItem, error) {
	return c.getList(ctx, "now_playing", "/movie/now_playing", models.KindMovie)
}

// PopularTV fetches popular series.
func (c *Client) PopularTV(ctx context.Context) ([]models.CatalogItem, error) {
	return c.getList(ctx, "popular_tv", "/tv/popular", models.KindSeries)
}

// TopRated fetches top-rated movies.
func (c *Client) TopRated(ctx context.Context) ([]models.CatalogItem, error) {
	return c.getList(ctx, "top_rated", "/movie/top_rated", models.KindMovie)
}

// Upcoming fetches upcoming movie releases.
func (c *Client) Upcoming(ctx context.Context) ([]models.CatalogItem, error) {
	return c.getList(ctx, "upcoming", "/movie/upcoming", models.KindMovie)
}

// getList fetches a list endpoint and maps each result to a light item.
func (c *Client) getList(ctx context.Context, endpoint, path string, hint models.MediaKind) ([]models.CatalogItem, error) {
	payload, err := getJSON[listPayload](ctx, c, endpoint, path, nil)
	if err != nil {
		return nil, err
	}

	results := payload.Results
	if len(results) > listResultCap {
		results = results[:listResultCap]
	}
	items := make([]models.CatalogItem, 0, len(results))
	for i := range results {
		items = append(items, c.mapLight(&results[i], hint))
	}
	return items, nil
}

// kindPath maps a media kind to its TMDB path segment.
func kindPath(kind models.MediaKind) string {
	if kind == models.KindSeries {
		return "tv"
	}
	return "movie"
}

// getJSON performs a rate-limited GET against the TMDB API, retrying 429
// responses with exponential backoff, and decodes the JSON response.
func getJSON[T any](ctx context.Context, c *Client, endpoint, path string, params url.Values) (*T, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastStatus int
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.TMDBRateLimitRetries.Inc()
			delay := backoffDelay(attempt)
			logger := logging.Ctx(ctx)
			logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("TMDB rate limited, backing off")
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("tmdb: build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		metrics.TMDBRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return nil, fmt.Errorf("tmdb: %s: %w", endpoint, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastStatus = resp.StatusCode
			resp.Body.Close()
			continue
		}

		result, err := decodeResponse[T](resp, endpoint)
		if err != nil {
			metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return nil, err
		}
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "success").Inc()
		return result, nil
	}

	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	return nil, fmt.Errorf("tmdb: %s: rate limited after %d retries (status %d)", endpoint, c.maxRetries, lastStatus)
}

// decodeResponse checks the HTTP status and decodes the body. It always
// closes the body.
func decodeResponse[T any](resp *http.Response, endpoint string) (*T, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("tmdb: %s: unexpected status %d: %s", endpoint, resp.StatusCode, body)
	}

	var result T
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("tmdb: %s: decode response: %w", endpoint, err)
	}
	return &result, nil
}

// readBodyForError reads a bounded amount of an error response body for
// inclusion in error messages.
func readBodyForError(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return "(no body)"
	}
	return string(data)
}

// backoffDelay returns the delay before the given retry attempt (1-based):
// 1s, 2s, 4s, 8s, 16s.
func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay << (attempt - 1)
	if delay > 16*time.Second {
		delay = 16 * time.Second
	}
	return delay
}

// sleepContext sleeps for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
