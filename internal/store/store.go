// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Package store loads the precomputed local catalog and item-to-item
// similarity matrix.
//
// Both files are produced offline by the model pipeline and loaded exactly
// once at process start. After loading, the store is immutable and safe for
// concurrent readers. When loading fails the process still starts: callers
// receive an empty store that never resolves anything, so every query takes
// the external fallback path.
package store

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/kinoscope/internal/metrics"
)

// Entry is one local catalog row. Index is the ordinal position in the
// similarity matrix, assigned at load time, and is the only key into it.
type Entry struct {
	// Index is the dense ordinal (0..N-1) into the similarity matrix.
	Index int `json:"-"`

	// Title is the canonical display title.
	Title string `json:"title"`

	// TMDBID is the external catalog identifier for this entry.
	TMDBID int64 `json:"tmdb_id"`
}

// Store holds the loaded catalog and similarity matrix.
type Store struct {
	entries []Entry
	matrix  [][]float64
	ready   bool
}

// Empty returns a store in permanent degraded mode: Ready reports false
// and every lookup misses.
func Empty() *Store {
	return &Store{}
}

// NewFromData builds a store from in-memory data, validating shape the same
// way Load does. Used by tests and offline tooling.
func NewFromData(entries []Entry, matrix [][]float64) (*Store, error) {
	for i := range entries {
		entries[i].Index = i
	}
	if err := validateShape(entries, matrix); err != nil {
		return nil, err
	}
	return &Store{entries: entries, matrix: matrix, ready: true}, nil
}

// Load reads the catalog and similarity matrix from the given JSON files
// and validates their shape. Any failure returns an error and no store;
// the caller decides whether to proceed degraded.
func Load(catalogPath, similarityPath string) (*Store, error) {
	entries, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	matrix, err := loadMatrix(similarityPath)
	if err != nil {
		return nil, fmt.Errorf("load similarity matrix: %w", err)
	}

	if err := validateShape(entries, matrix); err != nil {
		return nil, err
	}

	metrics.StoreLoaded.Set(1)
	metrics.StoreCatalogSize.Set(float64(len(entries)))

	return &Store{
		entries: entries,
		matrix:  matrix,
		ready:   true,
	}, nil
}

// loadCatalog reads the ordered catalog entries and assigns dense indices.
func loadCatalog(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range entries {
		entries[i].Index = i
		if entries[i].Title == "" {
			return nil, fmt.Errorf("catalog entry %d has an empty title", i)
		}
	}
	return entries, nil
}

// loadMatrix reads the dense 2-D similarity matrix.
func loadMatrix(path string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var matrix [][]float64
	if err := json.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return matrix, nil
}

// validateShape checks that the matrix is square and aligned with the
// catalog. matrix[i][j] is the similarity of entry i to entry j; it is not
// required to be symmetric.
func validateShape(entries []Entry, matrix [][]float64) error {
	if len(matrix) != len(entries) {
		return fmt.Errorf("similarity matrix has %d rows for %d catalog entries", len(matrix), len(entries))
	}
	for i, row := range matrix {
		if len(row) != len(entries) {
			return fmt.Errorf("similarity matrix row %d has %d columns, want %d", i, len(row), len(entries))
		}
	}
	return nil
}

// Ready reports whether the store loaded successfully.
func (s *Store) Ready() bool {
	return s.ready
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the catalog entries in matrix order. The returned slice
// is shared and must not be modified.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Row returns the similarity row for the given entry index. The returned
// slice is shared and must not be modified.
func (s *Store) Row(index int) ([]float64, error) {
	if index < 0 || index >= len(s.matrix) {
		return nil, fmt.Errorf("similarity index %d out of range [0,%d)", index, len(s.matrix))
	}
	return s.matrix[index], nil
}
