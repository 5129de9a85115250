// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Package recommend implements the recommendation pipeline.
//
// A query runs through two phases. The local phase resolves the query
// against the precomputed catalog (exact, then case-insensitive, then
// fuzzy title match) and ranks candidates by the offline similarity
// matrix. When the local phase misses or produces nothing, the external
// phase searches the live catalog and uses its related/similar signals
// instead. The local phase always runs first; the external phase is never
// attempted speculatively in parallel.
//
// Failures degrade instead of propagating: a failed detail lookup keeps a
// minimal or light record, a failed local sub-step falls through to the
// external phase, and a failed external call yields a partial or empty
// result. An empty result is a valid answer, not an error.
package recommend
