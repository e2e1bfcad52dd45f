// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
omdb.go - OMDb REST API Client

Single-endpoint client for the OMDb title lookup:

	GET {base_url}?t=<title>&apikey=<key>

API Reference: https://www.omdbapi.com/
*/

package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// omdbResponse is the subset of the OMDb title response we read. A title
// OMDb does not know comes back as 200 with Response "False" and no Poster.
type omdbResponse struct {
	Poster   *string `json:"Poster"`
	Response string  `json:"Response"`
	Error    string  `json:"Error"`
}

// omdbClient performs raw OMDb requests without caching or resilience.
type omdbClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newOMDbClient(baseURL, apiKey string, timeout time.Duration) *omdbClient {
	return &omdbClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// poster looks up one title. A nil result means OMDb returned no Poster.
func (c *omdbClient) poster(ctx context.Context, title string) (*string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid omdb base url: %w", err)
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
		if err != nil {
			return nil, fmt.Errorf("omdb returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("omdb returned status %d: %s", resp.StatusCode, string(body))
	}

	var out omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode omdb response: %w", err)
	}
	return out.Poster, nil
}
