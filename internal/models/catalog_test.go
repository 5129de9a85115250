// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestParseMediaKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want MediaKind
	}{
		{"movie", KindMovie},
		{"series", KindSeries},
		{"tv", KindSeries},
		{"", KindMovie},
		{"person", KindMovie},
	}
	for _, tt := range tests {
		if got := ParseMediaKind(tt.in); got != tt.want {
			t.Errorf("ParseMediaKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaKindValid(t *testing.T) {
	t.Parallel()

	if !KindMovie.Valid() || !KindSeries.Valid() {
		t.Error("known kinds report invalid")
	}
	if MediaKind("book").Valid() {
		t.Error("unknown kind reports valid")
	}
}

func TestRecommendationResultWireShape(t *testing.T) {
	t.Parallel()

	result := RecommendationResult{
		Recommendations: []Recommendation{
			{
				CatalogItem: CatalogItem{ID: 1, Title: "Dune", Kind: KindMovie},
				Reasoning:   "Recommended based on similar themes and style.",
			},
		},
		Source: &CatalogItem{ID: 2, Title: "Arrival", Kind: KindMovie},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"recommendations"`, `"source_movie"`, `"media_type"`, `"reasoning"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("wire payload missing %s: %s", key, data)
		}
	}
}
