// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package enrich adds OMDb poster artwork to movie result records.
//
// Enrichment is best effort. Every record of a batch is looked up
// concurrently; a lookup that times out, fails or is rejected by the
// circuit breaker is logged at warn level and leaves poster_url null.
// A batch always runs to completion and never returns an error.
//
// Outbound calls pass through, in order: an expirable LRU cache, a token
// bucket rate limiter and a circuit breaker. Each is optional.
package enrich
