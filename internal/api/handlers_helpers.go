// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/query"
)

// errorBody is the body of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends {"error": message}. err, when set, is logged.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Int("status", status).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondJSON(w, status, errorBody{Error: message})
}

// statusFor maps query errors to HTTP status codes.
func statusFor(err error) int {
	var (
		nf *query.NotFoundError
		ve *query.ValidationError
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &ve):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondQueryError writes a classified query error.
func respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("path", r.URL.Path).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("query failed")
	} else {
		logging.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("reason", sanitizeLogValue(err.Error())).
			Msg("query rejected")
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}
