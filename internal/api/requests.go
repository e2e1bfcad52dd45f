// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/query"
	"github.com/tomtom215/marquee/internal/validation"
)

// maxRequestBody caps the POST /recommend body.
const maxRequestBody = 64 << 10

// RecommendQuery holds the query parameters of the GET recommendation routes.
// Name is validated by the query service so that an absent name yields the
// domain's own message.
type RecommendQuery struct {
	Name  string `validate:"max=500"`
	Count string `validate:"omitempty,max=12,count"`
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	Movie string `json:"movie" validate:"max=500"`
	Count *int   `json:"count" validate:"omitempty,gte=-1000000,lte=1000000"`
}

// PopularQuery holds the query parameters of /popular_books.
type PopularQuery struct {
	Count string `validate:"omitempty,max=12,count"`
}

// validateRequest runs struct validation and converts a failure into a
// query.ValidationError so it is answered like any other bad parameter.
func validateRequest(v any) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return &query.ValidationError{Field: verr.FirstField(), Message: verr.Error(), Err: verr}
	}
	return nil
}

// decodeRecommendRequest parses and validates a POST /recommend body.
func decodeRecommendRequest(r *http.Request) (*RecommendRequest, error) {
	var req RecommendRequest
	body := io.LimitReader(r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, &query.ValidationError{
			Field:   "body",
			Message: "invalid request body",
			Err:     fmt.Errorf("decode: %w", err),
		}
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
