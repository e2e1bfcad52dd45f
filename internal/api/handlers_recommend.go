// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/query"
)

// RecommendMovies handles GET /recommend_movies?m=<title>&c=<count>.
// The legacy GET /recommend route is served by the same handler.
func (h *Handler) RecommendMovies(w http.ResponseWriter, r *http.Request) {
	h.recommendFromQuery(w, r, domainMovies, "m", "recommended_movies")
}

// RecommendBooks handles GET /recommend_books?b=<title>&c=<count>.
func (h *Handler) RecommendBooks(w http.ResponseWriter, r *http.Request) {
	h.recommendFromQuery(w, r, domainBooks, "b", "recommended_books")
}

// RecommendPost handles POST /recommend with a JSON body.
func (h *Handler) RecommendPost(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRecommendRequest(r)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}

	records, err := h.query.Recommend(r.Context(), domainMovies, req.Movie, req.Count)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]catalog.Record{"recommended_movies": records})
}

// PopularBooks handles GET /popular_books?c=<count>.
func (h *Handler) PopularBooks(w http.ResponseWriter, r *http.Request) {
	params := PopularQuery{Count: r.URL.Query().Get("c")}
	if err := validateRequest(&params); err != nil {
		respondQueryError(w, r, err)
		return
	}
	count, err := query.ParseCount(params.Count)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}

	records, err := h.query.Popular(r.Context(), domainBooks, count)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]catalog.Record{"popular_books": records})
}

func (h *Handler) recommendFromQuery(w http.ResponseWriter, r *http.Request, domain, nameParam, key string) {
	q := r.URL.Query()
	params := RecommendQuery{Name: q.Get(nameParam), Count: q.Get("c")}
	if err := validateRequest(&params); err != nil {
		respondQueryError(w, r, err)
		return
	}

	count, err := query.ParseCount(params.Count)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}

	records, err := h.query.Recommend(r.Context(), domain, params.Name, count)
	if err != nil {
		respondQueryError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]catalog.Record{key: records})
}
