// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Package models defines the catalog data model shared across the API,
// the recommendation engine, and the TMDB client.
package models

// PlaceholderPoster is the poster URL used when the catalog has no artwork
// for an item.
const PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Poster"

// MediaKind identifies the content type of a catalog item.
type MediaKind string

const (
	// KindMovie is a feature film.
	KindMovie MediaKind = "movie"
	// KindSeries is an episodic TV series.
	KindSeries MediaKind = "series"
)

// Valid reports whether the kind is one of the known media kinds.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// ParseMediaKind normalizes a kind string. Unknown values default to movie,
// which matches the external catalog's behavior for untyped results.
func ParseMediaKind(s string) MediaKind {
	if MediaKind(s) == KindSeries || s == "tv" {
		return KindSeries
	}
	return KindMovie
}

// CatalogItem is a single movie or series record.
//
// Light records (search, related, similar results) carry only the summary
// fields up to ReleaseDate. Full records (get-details) additionally carry
// genres, credits, keywords, and the cross-reference ID.
type CatalogItem struct {
	// ID is the external catalog identifier (TMDB ID).
	ID int64 `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Kind is the media kind (movie or series).
	Kind MediaKind `json:"media_type"`

	// Poster is the full poster image URL (placeholder when missing).
	Poster string `json:"poster,omitempty"`

	// Backdrop is the full backdrop image URL, if any.
	Backdrop string `json:"backdrop,omitempty"`

	// Overview is the plot summary.
	Overview string `json:"overview,omitempty"`

	// Rating is the average vote (0-10).
	Rating float64 `json:"rating"`

	// ReleaseDate is the release or first-air date (YYYY-MM-DD).
	ReleaseDate string `json:"release_date,omitempty"`

	// Genres is the genre list. Set semantics for matching; display order
	// preserved as delivered by the catalog.
	Genres []string `json:"genres,omitempty"`

	// VoteCount is the number of votes behind Rating.
	VoteCount int `json:"vote_count,omitempty"`

	// Runtime is the runtime in minutes (movies only).
	Runtime int `json:"runtime,omitempty"`

	// Seasons is the season count (series only).
	Seasons int `json:"seasons,omitempty"`

	// Episodes is the episode count (series only).
	Episodes int `json:"episodes,omitempty"`

	// Director is the credited director, at most one.
	Director string `json:"director,omitempty"`

	// Cast is the top-billed cast, in billing order.
	Cast []string `json:"cast,omitempty"`

	// Keywords is the keyword/tag list.
	Keywords []string `json:"keywords,omitempty"`

	// IMDBID is the external cross-reference identifier, if known.
	IMDBID string `json:"imdb_id,omitempty"`
}

// Recommendation is a catalog item with a justification, assigned after
// ranking is finalized.
type Recommendation struct {
	CatalogItem

	// Reasoning is the human-readable justification string.
	Reasoning string `json:"reasoning,omitempty"`
}

// RecommendationResult is the final ranked response for one query.
type RecommendationResult struct {
	// Recommendations is the ranked list, at most ten entries.
	Recommendations []Recommendation `json:"recommendations"`

	// Source describes what the query resolved to, when known.
	Source *CatalogItem `json:"source_movie,omitempty"`
}
