// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend ranks entities by precomputed content similarity.
//
// # Resolution
//
// A query key is resolved to one matrix row by the first policy that
// matches:
//
//  1. Exact key match, ignoring case. The first matching row wins.
//  2. Category containment: the first entity whose category list contains
//     the key verbatim. Only datasets with a category field take part.
//  3. Normalized key match: whitespace removed and case folded, against the
//     auxiliary lookup table or the entity keys.
//
// An unresolved key yields an empty result. That is "not found", not an
// error.
//
// # Ranking
//
// The resolved row is paired with its column indexes and sorted by score
// descending. Equal scores keep ascending index order and NaN scores sort
// after every real number, so the output for a given matrix is fully
// deterministic. The engine returns topK+1 candidates, the first of which is
// normally the entity itself; Config.IncludeSelf=false drops the self entry
// and returns topK.
//
// # Usage
//
//	engine := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	candidates := engine.Rank(ds, "Inception", 5)
//
// # Thread Safety
//
// The engine holds no mutable ranking state and is safe for concurrent use.
// Datasets are immutable.
package recommend
