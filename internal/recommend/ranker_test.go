// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/kinoscope/internal/store"
)

func testRankerStore(t *testing.T, matrix [][]float64) *store.Store {
	t.Helper()

	entries := make([]store.Entry, len(matrix))
	for i := range entries {
		entries[i] = store.Entry{Title: string(rune('A' + i)), TMDBID: int64(i + 1)}
	}
	s, err := store.NewFromData(entries, matrix)
	if err != nil {
		t.Fatalf("NewFromData: %v", err)
	}
	return s
}

func TestRankerRank(t *testing.T) {
	t.Parallel()

	s := testRankerStore(t, [][]float64{
		{1.0, 0.2, 0.8, 0.5},
		{0.2, 1.0, 0.3, 0.3},
		{0.8, 0.3, 1.0, 0.1},
		{0.5, 0.3, 0.1, 1.0},
	})
	r := NewRanker(s, 10)

	t.Run("orders by descending score and drops self", func(t *testing.T) {
		t.Parallel()
		got, err := r.Rank(0)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		want := []int{2, 3, 1}
		if !equalInts(got, want) {
			t.Errorf("Rank(0) = %v, want %v", got, want)
		}
	})

	t.Run("equal scores keep ascending index order", func(t *testing.T) {
		t.Parallel()
		got, err := r.Rank(1)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		// Indices 2 and 3 both score 0.3; 0 scores 0.2.
		want := []int{2, 3, 0}
		if !equalInts(got, want) {
			t.Errorf("Rank(1) = %v, want %v", got, want)
		}
	})

	t.Run("never contains the source index", func(t *testing.T) {
		t.Parallel()
		for i := 0; i < s.Len(); i++ {
			got, err := r.Rank(i)
			if err != nil {
				t.Fatalf("Rank(%d): %v", i, err)
			}
			if len(got) != s.Len()-1 {
				t.Errorf("Rank(%d) length = %d, want %d", i, len(got), s.Len()-1)
			}
			for _, c := range got {
				if c == i {
					t.Errorf("Rank(%d) contains the source index", i)
				}
			}
		}
	})
}

func TestRankerCapsResults(t *testing.T) {
	t.Parallel()

	n := 15
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			matrix[i][j] = 1.0 / float64(j+2)
		}
		matrix[i][i] = 1
	}
	r := NewRanker(testRankerStore(t, matrix), 10)

	got, err := r.Rank(0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("Rank length = %d, want 10", len(got))
	}
}

func TestRankerSingleEntryRow(t *testing.T) {
	t.Parallel()

	r := NewRanker(testRankerStore(t, [][]float64{{1.0}}), 10)
	got, err := r.Rank(0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Rank on single-entry row = %v, want empty", got)
	}
}

func TestRankerInvalidIndex(t *testing.T) {
	t.Parallel()

	r := NewRanker(testRankerStore(t, [][]float64{{1.0, 0.5}, {0.5, 1.0}}), 10)
	for _, index := range []int{-1, 2, 100} {
		if _, err := r.Rank(index); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("Rank(%d) error = %v, want ErrInvalidIndex", index, err)
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
