// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package query orchestrates one recommendation request: count clamping,
// ranking against the live store, record projection, title capitalization
// and optional poster enrichment.
//
// Failures are reported with three error types that the HTTP layer maps to
// status codes with errors.As:
//
//   - *ValidationError: missing name or malformed count (404)
//   - *NotFoundError: the name resolved to nothing (404)
//   - *InternalError: anything unexpected, including recovered panics (500)
package query
