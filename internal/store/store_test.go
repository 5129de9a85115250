// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", `[
		{"title": "Inception", "tmdb_id": 27205},
		{"title": "Interstellar", "tmdb_id": 157336},
		{"title": "Tenet", "tmdb_id": 577922}
	]`)
	similarity := writeFile(t, dir, "similarity.json", `[
		[1.0, 0.9, 0.7],
		[0.9, 1.0, 0.6],
		[0.7, 0.6, 1.0]
	]`)

	s, err := Load(catalog, similarity)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !s.Ready() {
		t.Error("Ready() = false after successful load")
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	entries := s.Entries()
	for i, want := range []string{"Inception", "Interstellar", "Tenet"} {
		if entries[i].Title != want {
			t.Errorf("entry %d title = %q, want %q", i, entries[i].Title, want)
		}
		if entries[i].Index != i {
			t.Errorf("entry %d index = %d, want %d", i, entries[i].Index, i)
		}
	}
	if entries[0].TMDBID != 27205 {
		t.Errorf("entry 0 tmdb_id = %d, want 27205", entries[0].TMDBID)
	}

	row, err := s.Row(1)
	if err != nil {
		t.Fatalf("Row(1): %v", err)
	}
	if row[0] != 0.9 || row[1] != 1.0 || row[2] != 0.6 {
		t.Errorf("Row(1) = %v", row)
	}
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	goodCatalog := writeFile(t, dir, "catalog.json", `[{"title": "A", "tmdb_id": 1}, {"title": "B", "tmdb_id": 2}]`)
	goodMatrix := writeFile(t, dir, "similarity.json", `[[1.0, 0.5], [0.5, 1.0]]`)

	tests := []struct {
		name       string
		catalog    string
		similarity string
	}{
		{
			name:       "missing catalog file",
			catalog:    filepath.Join(dir, "absent.json"),
			similarity: goodMatrix,
		},
		{
			name:       "missing similarity file",
			catalog:    goodCatalog,
			similarity: filepath.Join(dir, "absent.json"),
		},
		{
			name:       "malformed catalog",
			catalog:    writeFile(t, dir, "bad_catalog.json", `{"not": "a list"}`),
			similarity: goodMatrix,
		},
		{
			name:       "empty title",
			catalog:    writeFile(t, dir, "empty_title.json", `[{"title": "", "tmdb_id": 1}, {"title": "B", "tmdb_id": 2}]`),
			similarity: goodMatrix,
		},
		{
			name:       "row count mismatch",
			catalog:    goodCatalog,
			similarity: writeFile(t, dir, "short.json", `[[1.0, 0.5]]`),
		},
		{
			name:       "ragged matrix",
			catalog:    goodCatalog,
			similarity: writeFile(t, dir, "ragged.json", `[[1.0, 0.5], [0.5]]`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(tt.catalog, tt.similarity); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	s := Empty()
	if s.Ready() {
		t.Error("empty store reports ready")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := s.Row(0); err == nil {
		t.Error("Row(0) on empty store succeeded, want error")
	}
}

func TestNewFromData(t *testing.T) {
	t.Parallel()

	s, err := NewFromData(
		[]Entry{{Title: "A", TMDBID: 1}, {Title: "B", TMDBID: 2}},
		[][]float64{{1, 0.5}, {0.5, 1}},
	)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	if !s.Ready() || s.Len() != 2 {
		t.Errorf("store = ready %v len %d, want ready with 2 entries", s.Ready(), s.Len())
	}
	if s.Entries()[1].Index != 1 {
		t.Errorf("index not assigned, got %d", s.Entries()[1].Index)
	}

	if _, err := NewFromData([]Entry{{Title: "A"}}, [][]float64{{1, 0}}); err == nil {
		t.Error("shape mismatch accepted, want error")
	}
}

func TestRowBounds(t *testing.T) {
	t.Parallel()

	s, err := NewFromData([]Entry{{Title: "A"}}, [][]float64{{1}})
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	for _, index := range []int{-1, 1} {
		if _, err := s.Row(index); err == nil {
			t.Errorf("Row(%d) succeeded, want bounds error", index)
		}
	}
}
