// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

import (
	"strings"

	"github.com/tomtom215/kinoscope/internal/models"
)

// Fixed reasoning strings. Clients render these verbatim.
const (
	reasoningPrefix   = "Recommended because it shares: "
	reasoningFallback = "Recommended based on similar themes and style."
)

// clauseLimit caps how many shared values a single clause names.
const clauseLimit = 2

// Explain builds the human-readable justification for recommending
// candidate given source. Pure function, no I/O.
//
// Clauses appear in fixed order (genre, keywords, director, cast), each
// naming at most the first two shared values in the candidate's own list
// order. A clause with no shared values is omitted; with no clauses at all
// the fixed fallback sentence is returned.
func Explain(source, candidate *models.CatalogItem) string {
	var clauses []string

	if shared := sharedValues(source.Genres, candidate.Genres); len(shared) > 0 {
		clauses = append(clauses, "Genre: "+strings.Join(shared, ", "))
	}
	if shared := sharedValues(source.Keywords, candidate.Keywords); len(shared) > 0 {
		clauses = append(clauses, "Keywords: "+strings.Join(shared, ", "))
	}
	if source.Director != "" && source.Director == candidate.Director {
		clauses = append(clauses, "Director: "+source.Director)
	}
	if shared := sharedValues(source.Cast, candidate.Cast); len(shared) > 0 {
		clauses = append(clauses, "Cast: "+strings.Join(shared, ", "))
	}

	if len(clauses) == 0 {
		return reasoningFallback
	}
	return reasoningPrefix + strings.Join(clauses, " | ")
}

// sharedValues returns up to clauseLimit values present in both lists, in
// the candidate list's order.
func sharedValues(source, candidate []string) []string {
	if len(source) == 0 || len(candidate) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(source))
	for _, v := range source {
		set[v] = struct{}{}
	}

	var shared []string
	for _, v := range candidate {
		if _, ok := set[v]; ok {
			shared = append(shared, v)
			if len(shared) == clauseLimit {
				break
			}
		}
	}
	return shared
}
