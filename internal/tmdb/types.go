// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package tmdb

import (
	"github.com/tomtom215/kinoscope/internal/models"
)

// castLimit caps the cast list on full records to the top-billed names.
const castLimit = 5

// listPayload is the TMDB envelope for list endpoints (search, related,
// similar, trending, ...).
type listPayload struct {
	Results []itemPayload `json:"results"`
}

// itemPayload is a summary item as returned by TMDB list endpoints.
// Movies carry title/release_date, series carry name/first_air_date.
type itemPayload struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	MediaType    string  `json:"media_type"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

// detailPayload is a full item record with credits and keywords appended
// (append_to_response=credits,keywords).
type detailPayload struct {
	itemPayload

	Genres           []namedPayload  `json:"genres"`
	VoteCount        int             `json:"vote_count"`
	Runtime          int             `json:"runtime"`
	NumberOfSeasons  int             `json:"number_of_seasons"`
	NumberOfEpisodes int             `json:"number_of_episodes"`
	IMDBID           string          `json:"imdb_id"`
	Credits          creditsPayload  `json:"credits"`
	Keywords         keywordsPayload `json:"keywords"`
}

type namedPayload struct {
	Name string `json:"name"`
}

type creditsPayload struct {
	Cast []castPayload `json:"cast"`
	Crew []crewPayload `json:"crew"`
}

type castPayload struct {
	Name string `json:"name"`
}

type crewPayload struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// keywordsPayload covers both shapes TMDB uses: movies nest keywords under
// "keywords", series under "results".
type keywordsPayload struct {
	Keywords []namedPayload `json:"keywords"`
	Results  []namedPayload `json:"results"`
}

// displayTitle returns the title for either media kind.
func (p *itemPayload) displayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// displayDate returns the release date for either media kind.
func (p *itemPayload) displayDate() string {
	if p.ReleaseDate != "" {
		return p.ReleaseDate
	}
	return p.FirstAirDate
}

// mapLight converts a summary payload to a light CatalogItem. The kind hint
// applies when the payload carries no media_type (single-kind endpoints).
func (c *Client) mapLight(p *itemPayload, hint models.MediaKind) models.CatalogItem {
	kind := hint
	if p.MediaType != "" {
		kind = models.ParseMediaKind(p.MediaType)
	}

	item := models.CatalogItem{
		ID:          p.ID,
		Title:       p.displayTitle(),
		Kind:        kind,
		Poster:      models.PlaceholderPoster,
		Overview:    p.Overview,
		Rating:      p.VoteAverage,
		ReleaseDate: p.displayDate(),
	}
	if p.PosterPath != nil && *p.PosterPath != "" {
		item.Poster = c.imageBaseURL + *p.PosterPath
	}
	if p.BackdropPath != nil && *p.BackdropPath != "" {
		item.Backdrop = c.backdropBaseURL + *p.BackdropPath
	}
	return item
}

// mapFull converts a detail payload to a full CatalogItem.
func (c *Client) mapFull(p *detailPayload, kind models.MediaKind) models.CatalogItem {
	item := c.mapLight(&p.itemPayload, kind)

	item.Genres = names(p.Genres)
	item.VoteCount = p.VoteCount
	item.IMDBID = p.IMDBID

	switch item.Kind {
	case models.KindSeries:
		item.Seasons = p.NumberOfSeasons
		item.Episodes = p.NumberOfEpisodes
	default:
		item.Runtime = p.Runtime
	}

	for i, member := range p.Credits.Cast {
		if i >= castLimit {
			break
		}
		item.Cast = append(item.Cast, member.Name)
	}
	for _, member := range p.Credits.Crew {
		if member.Job == "Director" {
			item.Director = member.Name
			break
		}
	}

	item.Keywords = names(p.Keywords.Keywords)
	if len(item.Keywords) == 0 {
		item.Keywords = names(p.Keywords.Results)
	}
	return item
}

// names flattens a named payload list to its name strings.
func names(list []namedPayload) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Name)
	}
	return out
}
