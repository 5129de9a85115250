// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/kinoscope/internal/store"
)

// ErrInvalidIndex reports a ranking index outside the catalog bounds.
// Given correct resolver usage this cannot occur from user input.
var ErrInvalidIndex = errors.New("recommend: index out of catalog bounds")

// Ranker orders catalog entries by precomputed similarity to a source entry.
type Ranker struct {
	store      *store.Store
	maxResults int
}

// NewRanker creates a ranker over the store, returning at most maxResults
// candidates per call.
func NewRanker(s *store.Store, maxResults int) *Ranker {
	return &Ranker{store: s, maxResults: maxResults}
}

// Rank returns candidate indices ordered by descending similarity to the
// entry at index. Equal scores keep ascending index order. The top-ranked
// element of the row is dropped as the entry itself (self-similarity is
// maximal), so the source never appears among its own candidates. Rows with
// fewer than two entries rank nothing.
func (r *Ranker) Rank(index int) ([]int, error) {
	row, err := r.store.Row(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if len(row) < 2 {
		return nil, nil
	}

	order := make([]int, len(row))
	for i := range order {
		order[i] = i
	}
	// Stable sort over ascending indices keeps ascending order for ties.
	sort.SliceStable(order, func(i, j int) bool {
		return row[order[i]] > row[order[j]]
	})

	order = order[1:]
	if len(order) > r.maxResults {
		order = order[:r.maxResults]
	}
	return order, nil
}
