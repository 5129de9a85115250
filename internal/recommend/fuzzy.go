// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

package recommend

// similarityRatio returns a string similarity score in [0,1], where 1 is an
// exact match. It is a normalized optimal-string-alignment edit distance:
// insertions, deletions, substitutions, and adjacent transpositions each
// cost 1. Counting a transposition as a single edit matters for typo
// tolerance: "Inceptoin" scores 0.889 against "Inception" instead of the
// 0.778 plain edit distance would give.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	dist := osaDistance(ra, rb)
	return 1 - float64(dist)/float64(longest)
}

// osaDistance computes the optimal string alignment distance between two
// rune slices using three rolling rows.
func osaDistance(a, b []rune) int {
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			d := prev[j] + 1 // deletion
			if ins := curr[j-1] + 1; ins < d {
				d = ins
			}
			if sub := prev[j-1] + cost; sub < d {
				d = sub
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if tr := prev2[j-2] + 1; tr < d {
					d = tr
				}
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[len(b)]
}
