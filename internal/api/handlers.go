// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/query"
)

// Domain names served by the HTTP routes.
const (
	domainMovies = "movies"
	domainBooks  = "books"
)

// Handler serves the recommendation endpoints.
type Handler struct {
	query     *query.Service
	holder    *catalog.Holder
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - svc: query service answering recommendation and popularity requests
//   - holder: live store, inspected by the readiness probe
func NewHandler(svc *query.Service, holder *catalog.Holder) *Handler {
	return &Handler{
		query:     svc,
		holder:    holder,
		startTime: time.Now(),
	}
}
