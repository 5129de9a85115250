// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

import (
	"strings"

	"github.com/tomtom215/kinoscope/internal/metrics"
	"github.com/tomtom215/kinoscope/internal/store"
)

// Resolver maps a free-text query to a local catalog index.
//
// Resolution runs in strict priority order: exact title match, then
// case-insensitive match, then fuzzy match against every stored title.
// The lookup tables are built once at construction and never mutated.
type Resolver struct {
	entries   []store.Entry
	exact     map[string]int
	folded    map[string]int
	threshold float64
}

// NewResolver builds a resolver over the store's catalog. When two titles
// fold to the same lower-cased key, the last-inserted entry wins.
func NewResolver(s *store.Store, threshold float64) *Resolver {
	entries := s.Entries()
	r := &Resolver{
		entries:   entries,
		exact:     make(map[string]int, len(entries)),
		folded:    make(map[string]int, len(entries)),
		threshold: threshold,
	}
	for _, e := range entries {
		r.exact[e.Title] = e.Index
		r.folded[strings.ToLower(e.Title)] = e.Index
	}
	return r
}

// Resolve returns the catalog index for the query, or false when nothing
// matches within tolerance. Pure lookup, no side effects beyond metrics.
func (r *Resolver) Resolve(query string) (int, bool) {
	if index, ok := r.exact[query]; ok {
		metrics.ResolverOutcomes.WithLabelValues("exact").Inc()
		return index, true
	}

	if index, ok := r.folded[strings.ToLower(query)]; ok {
		metrics.ResolverOutcomes.WithLabelValues("fold").Inc()
		return index, true
	}

	if index, ok := r.fuzzyMatch(query); ok {
		metrics.ResolverOutcomes.WithLabelValues("fuzzy").Inc()
		return index, true
	}

	metrics.ResolverOutcomes.WithLabelValues("miss").Inc()
	return 0, false
}

// fuzzyMatch returns the single best-scoring title at or above the
// threshold. Ties keep the lower index. The threshold is deliberately high:
// typo tolerance only, so "The Avengers" never matches a different
// installment of the franchise.
func (r *Resolver) fuzzyMatch(query string) (int, bool) {
	bestIndex := -1
	bestRatio := 0.0
	for _, e := range r.entries {
		ratio := similarityRatio(query, e.Title)
		if ratio >= r.threshold && ratio > bestRatio {
			bestIndex = e.Index
			bestRatio = ratio
		}
	}
	if bestIndex < 0 {
		return 0, false
	}
	return bestIndex, true
}
